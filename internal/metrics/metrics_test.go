package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_IncAndAdd(t *testing.T) {
	r := NewRegistry()

	r.Inc(ExamsAppendedTotal)
	r.Add(ExamsAppendedTotal, 2)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap[string(ExamsAppendedTotal)])
}

func TestRegistry_NegativeDeltaAndSet(t *testing.T) {
	r := NewRegistry()

	r.Add(UploadsPending, 3)
	r.Add(UploadsPending, -1)
	assert.Equal(t, int64(2), r.Snapshot()[string(UploadsPending)])

	r.Set(ExamsStored, 7)
	assert.Equal(t, int64(7), r.Snapshot()[string(ExamsStored)])
}

func TestRegistry_MultipleMetrics(t *testing.T) {
	r := NewRegistry()

	r.Inc(ExamLookupsTotal)
	r.Inc(ExamMissesTotal)
	r.Add(NotificationsDerivedTotal, 5)

	snap := r.Snapshot()

	assert.Equal(t, int64(1), snap[string(ExamLookupsTotal)])
	assert.Equal(t, int64(1), snap[string(ExamMissesTotal)])
	assert.Equal(t, int64(5), snap[string(NotificationsDerivedTotal)])
}

func TestRegistry_ConcurrentUpdates(t *testing.T) {
	r := NewRegistry()
	wg := sync.WaitGroup{}

	workers := 50
	increments := 100

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				r.Inc(ComparisonsTotal)
			}
		}()
	}

	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, int64(workers*increments), snap[string(ComparisonsTotal)])
}

func TestRegistry_SnapshotIsDeepCopy(t *testing.T) {
	r := NewRegistry()

	r.Inc(ExamsStored)
	snap1 := r.Snapshot()

	snap1[string(ExamsStored)] = 999

	snap2 := r.Snapshot()

	assert.Equal(t, int64(1), snap2[string(ExamsStored)],
		"internal state should not be affected by snapshot mutation")
}

func TestRegistry_TotalsAreCounters(t *testing.T) {
	r := NewRegistry()

	r.Add(UploadsSubmittedTotal, 2)
	r.Add(UploadsSubmittedTotal, -1)
	r.Set(UploadsSubmittedTotal, 0)
	r.Set(ExamsStored, 3)
	r.Add(UploadsPending, 1)

	assert.Equal(t, int64(2), r.Snapshot()[string(UploadsSubmittedTotal)], "counters only move up")

	families, err := r.reg.Gather()
	require.NoError(t, err)

	types := map[string]dto.MetricType{}
	for _, f := range families {
		types[f.GetName()] = f.GetType()
	}
	assert.Equal(t, dto.MetricType_COUNTER, types["healthtrack_uploads_submitted_total"])
	assert.Equal(t, dto.MetricType_GAUGE, types["healthtrack_exams_stored"])
	assert.Equal(t, dto.MetricType_GAUGE, types["healthtrack_uploads_pending"])
}

func TestRegistry_UnknownMetricHandledGracefully(t *testing.T) {
	r := NewRegistry()

	r.Inc("unknown_metric")

	snap := r.Snapshot()
	assert.Equal(t, int64(1), snap["unknown_metric"])
}

func TestRegistry_HandlerExposesPrometheusFormat(t *testing.T) {
	r := NewRegistry()
	r.Add(ReportsGeneratedTotal, 4)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), "healthtrack_reports_generated_total 4")
}

func TestRegistry_MiddlewareUsesRoutePattern(t *testing.T) {
	r := NewRegistry()

	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/exams/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/exams/123", nil))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(),
		`healthtrack_http_requests_total{method="GET",route="/exams/{id}",status="404"} 1`)
}
