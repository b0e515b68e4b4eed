package ztelemetry

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glencornell/Statistic/zlog"
	"github.com/glencornell/Statistic/zstatistic"
	"github.com/glencornell/Statistic/ztesting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type float64Collector = StatisticCollector[float64, uint64, zstatistic.StdDev[float64]]

func newLatency() *float64Collector {
	return NewStatisticCollector[float64, uint64, zstatistic.StdDev[float64]]("zstat", "latency", "latency", nil)
}

func TestCollectorMetricCount(t *testing.T) {
	zlog.Warn("TestCollectorMetricCount")
	c := newLatency()
	ztesting.Equal(t, "empty metrics", testutil.CollectAndCount(c), 6)
	c.Add(1)
	ztesting.Equal(t, "metrics", testutil.CollectAndCount(c), 8)

	n := NewStatisticCollector[float32, uint32, zstatistic.NoStdDev[float32]]("zstat", "size", "size", nil)
	ztesting.Equal(t, "empty no-stddev metrics", testutil.CollectAndCount(n), 3)
	n.Add(1)
	ztesting.Equal(t, "no-stddev metrics", testutil.CollectAndCount(n), 5)
}

func TestCollectorValues(t *testing.T) {
	zlog.Warn("TestCollectorValues")
	c := newLatency()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		c.Add(v)
	}
	expected := `
# HELP zstat_latency_count latency: number of samples
# TYPE zstat_latency_count gauge
zstat_latency_count 8
# HELP zstat_latency_sum latency: sum of samples
# TYPE zstat_latency_sum gauge
zstat_latency_sum 40
# HELP zstat_latency_min latency: smallest sample
# TYPE zstat_latency_min gauge
zstat_latency_min 2
# HELP zstat_latency_max latency: largest sample
# TYPE zstat_latency_max gauge
zstat_latency_max 9
# HELP zstat_latency_average latency: mean of samples
# TYPE zstat_latency_average gauge
zstat_latency_average 5
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"zstat_latency_count", "zstat_latency_sum", "zstat_latency_min", "zstat_latency_max", "zstat_latency_average")
	ztesting.NoError(t, "CollectAndCompare", err)

	reg := NewRegistry(false)
	reg.MustRegister(c)
	families, err := reg.Gather()
	ztesting.NoError(t, "Gather", err)
	for _, f := range families {
		if f.GetName() == "zstat_latency_stddev" {
			ztesting.Near(t, "stddev", f.GetMetric()[0].GetGauge().GetValue(), 2, 1e-12)
			return
		}
	}
	t.Error("no zstat_latency_stddev gathered")
}

func TestCollectorConcurrentAdd(t *testing.T) {
	zlog.Warn("TestCollectorConcurrentAdd")
	c := newLatency()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local zstatistic.Float64
			for i := 0; i < 500; i++ {
				c.Add(float64(i))
				local.Add(float64(i))
			}
			c.Merge(&local)
			testutil.CollectAndCount(c)
		}()
	}
	wg.Wait()
	s := c.Snapshot()
	ztesting.Equal(t, "Count", s.Count, uint64(8000))
	ztesting.Equal(t, "Sum", s.Sum, float64(16*124750))
	ztesting.Equal(t, "Min", s.Min, 0.0)
	ztesting.Equal(t, "Max", s.Max, 499.0)

	c.Reset()
	ztesting.Equal(t, "Reset Count", c.Snapshot().Count, uint64(0))
}

func TestRouterServesMetrics(t *testing.T) {
	zlog.Warn("TestRouterServesMetrics")
	c := newLatency()
	c.Add(3)
	reg := NewRegistry(true)
	reg.MustRegister(c)
	server := httptest.NewServer(NewRouter(reg))
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/metrics")
	if !ztesting.NoError(t, "Get", err) {
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	ztesting.Equal(t, "status", resp.StatusCode, 200)
	ztesting.Equal(t, "has count", strings.Contains(string(body), "zstat_latency_count 1"), true)
	ztesting.Equal(t, "has go runtime", strings.Contains(string(body), "go_goroutines"), true)

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	ztesting.NoError(t, "GatherAndCount", err)
	ztesting.Equal(t, "requests counted", n, 1)
}

func TestServeStopsOnCancel(t *testing.T) {
	zlog.Warn("TestServeStopsOnCancel")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry())
	ztesting.NoError(t, "Serve", err)
}

func TestListenAddress(t *testing.T) {
	zlog.Warn("TestListenAddress")
	ztesting.Equal(t, "bare port", ListenAddress("9090"), ":9090")
	ztesting.Equal(t, "colon port", ListenAddress(":9090"), ":9090")
	ztesting.Equal(t, "host port", ListenAddress("127.0.0.1:9090"), "127.0.0.1:9090")
}
