// Package metrics exports the process-wide connpool counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/connpool"
)

// Collector implements prometheus.Collector over connpool.ReadStats.
type Collector struct {
	live      *prometheus.Desc
	created   *prometheus.Desc
	bytes     *prometheus.Desc
	fallbacks *prometheus.Desc
	failures  *prometheus.Desc
	refused   *prometheus.Desc

	read func() connpool.Stats
}

// NewCollector returns a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	return newCollector(namespace, connpool.ReadStats)
}

func newCollector(namespace string, read func() connpool.Stats) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "connpool", n)
	}
	return &Collector{
		live: prometheus.NewDesc(name("pools_live"),
			"Pools created and not yet destroyed.", nil, nil),
		created: prometheus.NewDesc(name("pools_created_total"),
			"Pools created, by backing.", []string{"backing"}, nil),
		bytes: prometheus.NewDesc(name("reserved_bytes"),
			"Bytes held by live pools, by backing.", []string{"backing"}, nil),
		fallbacks: prometheus.NewDesc(name("map_fallbacks_total"),
			"Large pools that fell back to the heap.", nil, nil),
		failures: prometheus.NewDesc(name("backing_failures_total"),
			"Backing acquisitions or releases that failed.", []string{"op"}, nil),
		refused: prometheus.NewDesc(name("refused_allocations_total"),
			"Allocations refused, by reason.", []string{"reason"}, nil),
		read: read,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.live
	ch <- c.created
	ch <- c.bytes
	ch <- c.fallbacks
	ch <- c.failures
	ch <- c.refused
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.read()
	heap, mapped := connpool.BackingHeap.String(), connpool.BackingMapped.String()

	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.PoolsLive))
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.HeapPools), heap)
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.MappedPools), mapped)
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.HeapBytes), heap)
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.MappedBytes), mapped)
	ch <- prometheus.MustNewConstMetric(c.fallbacks, prometheus.CounterValue, float64(s.MapFallbacks))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.BackingErrors), "acquire")
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.ReleaseErrors), "release")
	ch <- prometheus.MustNewConstMetric(c.refused, prometheus.CounterValue, float64(s.ExhaustedCalls), "exhausted")
	ch <- prometheus.MustNewConstMetric(c.refused, prometheus.CounterValue, float64(s.OverflowCalls), "overflow")
}
