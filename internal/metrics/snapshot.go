package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Snapshot returns a copy of every domain metric keyed by MetricKey.
// Safe for concurrent use and immune to external mutation.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.counters)+len(r.gauges))
	for key, c := range r.counters {
		var m dto.Metric
		if err := c.Write(&m); err != nil {
			continue
		}
		out[string(key)] = int64(m.GetCounter().GetValue())
	}
	for key, g := range r.gauges {
		var m dto.Metric
		if err := g.Write(&m); err != nil {
			continue
		}
		out[string(key)] = int64(m.GetGauge().GetValue())
	}
	return out
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
