package ztelemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/glencornell/Statistic/zlog"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var scrapeBuckets = prometheus.ExponentialBuckets(0.001, 2, 8)

// NewRegistry makes a registry, with go runtime and process metrics if withRuntime.
func NewRegistry(withRuntime bool) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return reg
}

// NewRouter serves reg's metrics on /metrics.
func NewRouter(reg *prometheus.Registry) *mux.Router {
	router := mux.NewRouter()
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	router.Handle("/metrics", WrapHandler(reg, "metrics", handler))
	return router
}

// WrapHandler counts and times requests to h, registering the metrics in reg.
func WrapHandler(reg prometheus.Registerer, handlerName string, h http.Handler) http.Handler {
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"handler": handlerName}, reg)
	requestsTotal := promauto.With(wrapped).NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Tracks the number of HTTP requests.",
		}, []string{"method", "code"},
	)
	requestDuration := promauto.With(wrapped).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Tracks the latencies for HTTP requests.",
			Buckets: scrapeBuckets,
		},
		[]string{"method", "code"},
	)
	return promhttp.InstrumentHandlerCounter(requestsTotal,
		promhttp.InstrumentHandlerDuration(requestDuration, h),
	)
}

// ListenAddress turns a bare port like "9090" into ":9090". Other addresses are returned as is.
func ListenAddress(addr string) string {
	if _, err := strconv.Atoi(addr); err == nil {
		return ":" + addr
	}
	return addr
}

// Serve serves reg on addr (see ListenAddress) until ctx is done.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	addr = ListenAddress(addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	zlog.Debug("serving metrics on", addr)
	select {
	case err := <-errs:
		return zlog.Wrap(err, "metrics server", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
