// Package allocmetrics exports allocctx counters as Prometheus gauges.
package allocmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/allocctx"
)

const namespace = "allocctx"

// Source is what the collector reads. *allocctx.Manager satisfies it.
type Source interface {
	Info() allocctx.AllocationInfo
	Depth() int
	Current() allocctx.Context
}

// Collector reads a fresh snapshot on every scrape.
type Collector struct {
	src Source

	allocated *prometheus.Desc
	remaining *prometheus.Desc
	depth     *prometheus.Desc
	active    *prometheus.Desc
}

// NewCollector returns a collector for src.
func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		allocated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "allocated_bytes"),
			"Bytes handed out by each backend, alignment padding included.",
			[]string{"backend"}, nil),
		remaining: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "remaining_bytes"),
			"Bytes left in each fixed-capacity backend.",
			[]string{"backend"}, nil),
		depth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "stack_depth"),
			"Contexts pushed above the initial System entry.",
			nil, nil),
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "active_context"),
			"1 for the context on top of the stack, 0 otherwise.",
			[]string{"backend"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.remaining
	ch <- c.depth
	ch <- c.active
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	info := c.src.Info()
	gauge := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v), labels...)
	}

	gauge(c.allocated, info.SystemAllocated, allocctx.System.String())
	gauge(c.allocated, info.ArenaAllocated, allocctx.Arena.String())
	gauge(c.allocated, info.PoolAllocated, allocctx.Pool.String())
	gauge(c.remaining, info.ArenaRemaining, allocctx.Arena.String())
	gauge(c.remaining, info.PoolRemaining, allocctx.Pool.String())
	gauge(c.depth, uint64(c.src.Depth()))

	cur := c.src.Current()
	for _, ctx := range []allocctx.Context{allocctx.System, allocctx.Arena, allocctx.Pool} {
		v := uint64(0)
		if ctx == cur {
			v = 1
		}
		gauge(c.active, v, ctx.String())
	}
}

// Register adds a collector for src to reg.
func Register(reg prometheus.Registerer, src Source) error {
	return reg.Register(NewCollector(src))
}
