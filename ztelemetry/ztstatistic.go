package ztelemetry

import (
	"github.com/glencornell/Statistic/zstatistic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sasha-s/go-deadlock"
)

// StatisticCollector exports a zstatistic.Statistic as gauges.
// It is safe to Add to while it's being scraped.
type StatisticCollector[T zstatistic.Real, C zstatistic.Unsigned, V zstatistic.Tracker[T, V]] struct {
	lock deadlock.Mutex
	stat zstatistic.Statistic[T, C, V]

	count            *prometheus.Desc
	sum              *prometheus.Desc
	min              *prometheus.Desc
	max              *prometheus.Desc
	average          *prometheus.Desc
	variance         *prometheus.Desc
	populationStdDev *prometheus.Desc
	sampleStdDev     *prometheus.Desc
}

func NewStatisticCollector[T zstatistic.Real, C zstatistic.Unsigned, V zstatistic.Tracker[T, V]](namespace, name, help string, constLabels prometheus.Labels) *StatisticCollector[T, C, V] {
	desc := func(suffix, what string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, name, suffix), help+": "+what, nil, constLabels)
	}
	return &StatisticCollector[T, C, V]{
		count:            desc("count", "number of samples"),
		sum:              desc("sum", "sum of samples"),
		min:              desc("min", "smallest sample"),
		max:              desc("max", "largest sample"),
		average:          desc("average", "mean of samples"),
		variance:         desc("variance", "population variance"),
		populationStdDev: desc("stddev", "population standard deviation"),
		sampleStdDev:     desc("sample_stddev", "sample standard deviation"),
	}
}

func (c *StatisticCollector[T, C, V]) Add(value T) T {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stat.Add(value)
}

// Merge adds all of s's samples. Useful when each goroutine fills its own Statistic.
func (c *StatisticCollector[T, C, V]) Merge(s *zstatistic.Statistic[T, C, V]) {
	c.lock.Lock()
	c.stat.Merge(s)
	c.lock.Unlock()
}

func (c *StatisticCollector[T, C, V]) Reset() {
	c.lock.Lock()
	c.stat.Reset()
	c.lock.Unlock()
}

func (c *StatisticCollector[T, C, V]) Snapshot() zstatistic.Summary[T, C] {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stat.Summary()
}

func (c *StatisticCollector[T, C, V]) tracksVariance() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stat.TracksVariance()
}

func (c *StatisticCollector[T, C, V]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.sum
	ch <- c.min
	ch <- c.max
	ch <- c.average
	if c.tracksVariance() {
		ch <- c.variance
		ch <- c.populationStdDev
		ch <- c.sampleStdDev
	}
}

// Collect skips min and max while empty, as they're only zero-placeholders then.
// Undefined averages and deviations are sent as NaN.
func (c *StatisticCollector[T, C, V]) Collect(ch chan<- prometheus.Metric) {
	s := c.Snapshot()
	gauge := func(desc *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v)
	}
	gauge(c.count, float64(s.Count))
	gauge(c.sum, float64(s.Sum))
	if s.Count > 0 {
		gauge(c.min, float64(s.Min))
		gauge(c.max, float64(s.Max))
	}
	gauge(c.average, float64(s.Average))
	if s.TracksVariance {
		gauge(c.variance, float64(s.Variance))
		gauge(c.populationStdDev, float64(s.PopulationStdDev))
		gauge(c.sampleStdDev, float64(s.SampleStdDev))
	}
}
