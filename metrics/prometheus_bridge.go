package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryCollector adapts a Registry to prometheus.Collector, so the
// process-wide gauges and counters (blockchain.height,
// blockchain.difficulty_total, and anything else registered on-demand) can
// be scraped through the standard client_golang /metrics pipeline instead of
// a bespoke text formatter.
type RegistryCollector struct {
	registry *Registry
}

// NewRegistryCollector wraps registry for registration with a
// prometheus.Registerer.
func NewRegistryCollector(registry *Registry) *RegistryCollector {
	return &RegistryCollector{registry: registry}
}

// Describe is a no-op: metric names are only known once Collect runs, since
// Registry creates them on first access. Leaving this empty makes the
// collector "unchecked", which client_golang explicitly supports.
func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {}

// Collect emits the current value of every registered counter and gauge.
func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()

	for name, g := range c.registry.gauges {
		desc := prometheus.NewDesc(promSafeName(name), "blockindex gauge "+name, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(g.Value()))
	}
	for name, c := range c.registry.counters {
		desc := prometheus.NewDesc(promSafeName(name), "blockindex counter "+name, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(c.Value()))
	}
}

func promSafeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '.' || name[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return "blockindex_" + string(out)
}
