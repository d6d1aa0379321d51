// Package poolmetrics exposes a pool.Pool's bookkeeping as Prometheus
// metrics. It is purely observational: a Collector reads a Pool's
// Stats() snapshot on each scrape and never touches the pool's
// allocation fast path.
//
// Grounded on Voskan/arena-cache, whose module declares both zap and
// prometheus/client_golang as dependencies of a generational
// arena/cache allocator.
package poolmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/schets/compacting-object-pool/pool"
)

// Collector adapts a *pool.Pool's Stats() snapshot to the
// prometheus.Collector interface so it can be registered with a
// prometheus.Registry.
type Collector struct {
	source *pool.Pool

	allocStreak  *prometheus.Desc
	evictStreak  *prometheus.Desc
	loadStreak   *prometheus.Desc
	emptySlabs   *prometheus.Desc
	partialSlabs *prometheus.Desc
	fullSlabs    *prometheus.Desc
	cacheOcc     *prometheus.Desc
}

// NewCollector builds a Collector for source, labeling every metric
// with the given pool name (e.g. the object type it backs).
func NewCollector(name string, source *pool.Pool) *Collector {
	labels := prometheus.Labels{"pool": name}
	desc := func(d string) *prometheus.Desc {
		return prometheus.NewDesc("compacting_pool_"+d, "compacting object pool "+d, nil, labels)
	}

	return &Collector{
		source:       source,
		allocStreak:  desc("alloc_streak"),
		evictStreak:  desc("evict_streak"),
		loadStreak:   desc("load_streak"),
		emptySlabs:   desc("empty_slabs"),
		partialSlabs: desc("partial_slabs"),
		fullSlabs:    desc("full_slabs"),
		cacheOcc:     desc("cache_occupancy"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocStreak
	ch <- c.evictStreak
	ch <- c.loadStreak
	ch <- c.emptySlabs
	ch <- c.partialSlabs
	ch <- c.fullSlabs
	ch <- c.cacheOcc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.allocStreak, prometheus.CounterValue, float64(s.AllocStreak))
	ch <- prometheus.MustNewConstMetric(c.evictStreak, prometheus.CounterValue, float64(s.EvictStreak))
	ch <- prometheus.MustNewConstMetric(c.loadStreak, prometheus.CounterValue, float64(s.LoadStreak))
	ch <- prometheus.MustNewConstMetric(c.emptySlabs, prometheus.GaugeValue, float64(s.EmptySlabs))
	ch <- prometheus.MustNewConstMetric(c.partialSlabs, prometheus.GaugeValue, float64(s.PartialSlabs))
	ch <- prometheus.MustNewConstMetric(c.fullSlabs, prometheus.GaugeValue, float64(s.FullSlabs))
	ch <- prometheus.MustNewConstMetric(c.cacheOcc, prometheus.GaugeValue, float64(s.CacheOccupancy))
}
