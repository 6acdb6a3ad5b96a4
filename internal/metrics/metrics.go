package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "healthtrack"

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Exam repository
	ExamsStored        MetricKey = "exams_stored"
	ExamsAppendedTotal MetricKey = "exams_appended_total"
	ExamLookupsTotal   MetricKey = "exam_lookups_total"
	ExamMissesTotal    MetricKey = "exam_misses_total"

	// Engine
	NotificationsDerivedTotal MetricKey = "notifications_derived_total"
	NotificationsReadTotal    MetricKey = "notifications_read_total"
	ComparisonsTotal          MetricKey = "comparisons_total"
	ReportsGeneratedTotal     MetricKey = "reports_generated_total"
	RulesTriggeredTotal       MetricKey = "rules_triggered_total"

	// Upload simulation
	UploadsSubmittedTotal MetricKey = "uploads_submitted_total"
	UploadsCompletedTotal MetricKey = "uploads_completed_total"
	UploadsDroppedTotal   MetricKey = "uploads_dropped_total"
	UploadsPending        MetricKey = "uploads_pending"

	// Database
	DBConnectRetriesTotal MetricKey = "db_connect_retries_total"
)

// Registry owns a private Prometheus registry. Keys ending in _total are
// exported as counters and every other key as a gauge.
type Registry struct {
	mu       sync.RWMutex
	reg      *prometheus.Registry
	counters map[MetricKey]prometheus.Counter
	gauges   map[MetricKey]prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg:      reg,
		counters: make(map[MetricKey]prometheus.Counter),
		gauges:   make(map[MetricKey]prometheus.Gauge),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(r.httpRequests, r.httpDuration)
	return r
}

func isCounter(key MetricKey) bool {
	return strings.HasSuffix(string(key), "_total")
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add changes a metric by delta. Counters only move up, so a negative delta
// on a counter is dropped.
func (r *Registry) Add(key MetricKey, delta int64) {
	if isCounter(key) {
		if delta > 0 {
			r.counter(key).Add(float64(delta))
		}
		return
	}
	r.gauge(key).Add(float64(delta))
}

// Set overwrites a gauge. Counters cannot be set and are left unchanged.
func (r *Registry) Set(key MetricKey, value int64) {
	if isCounter(key) {
		return
	}
	r.gauge(key).Set(float64(value))
}

func (r *Registry) counter(key MetricKey) prometheus.Counter {
	r.mu.RLock()
	c, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok = r.counters[key]; ok {
		return c
	}

	c = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      string(key),
		Help:      "healthtrack " + string(key),
	})
	r.reg.MustRegister(c)
	r.counters[key] = c
	return c
}

func (r *Registry) gauge(key MetricKey) prometheus.Gauge {
	r.mu.RLock()
	g, ok := r.gauges[key]
	r.mu.RUnlock()

	if ok {
		return g
	}

	// Slow path: metric not yet registered
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok = r.gauges[key]; ok {
		return g
	}

	g = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      string(key),
		Help:      "healthtrack " + string(key),
	})
	r.reg.MustRegister(g)
	r.gauges[key] = g
	return g
}
