// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ldd

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the statistics of an Engine as Prometheus metrics. The
// values are read from Snapshot each time the collector is scraped, so the
// collector must not be scraped concurrently with an operation on the engine.
type Collector struct {
	e           *Engine
	nodes       *prometheus.Desc
	free        *prometheus.Desc
	produced    *prometheus.Desc
	collections *prometheus.Desc
	resizes     *prometheus.Desc
	uniqueSize  *prometheus.Desc
	cacheSize   *prometheus.Desc
	cacheHits   *prometheus.Desc
	cacheMisses *prometheus.Desc
	handles     *prometheus.Desc
}

// NewCollector returns a collector for e, with metric names prefixed by
// namespace (for instance "ldd").
func NewCollector(e *Engine, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		e:           e,
		nodes:       desc("nodes", "Size of the node table."),
		free:        desc("free_nodes", "Number of free nodes in the node table."),
		produced:    desc("produced_nodes_total", "Total number of nodes produced."),
		collections: desc("gc_total", "Total number of garbage collections."),
		resizes:     desc("resizes_total", "Total number of resizes of the node table."),
		uniqueSize:  desc("unique_buckets", "Number of buckets in the unique table."),
		cacheSize:   desc("cache_entries", "Number of entries in the operation cache."),
		cacheHits:   desc("cache_hits_total", "Total number of hits in the operation cache."),
		cacheMisses: desc("cache_misses_total", "Total number of misses in the operation cache."),
		handles:     desc("handles", "Number of live sets, relations and projections."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.free
	ch <- c.produced
	ch <- c.collections
	ch <- c.resizes
	ch <- c.uniqueSize
	ch <- c.cacheSize
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.handles
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.e.Snapshot()
	gauge := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge(c.nodes, s.Nodes)
	gauge(c.free, s.Free)
	counter(c.produced, s.Produced)
	counter(c.collections, s.Collections)
	counter(c.resizes, s.Resizes)
	gauge(c.uniqueSize, s.UniqueSize)
	gauge(c.cacheSize, s.CacheSize)
	counter(c.cacheHits, s.CacheHits)
	counter(c.cacheMisses, s.CacheMisses)
	gauge(c.handles, s.Handles)
}
