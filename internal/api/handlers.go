package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"healthtrack/internal/ai"
	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
	"healthtrack/internal/goals"
	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
	"healthtrack/internal/notify"
	"healthtrack/internal/store"
	"healthtrack/internal/upload"
)

// Uploader accepts files for simulated analysis.
type Uploader interface {
	Submit(fileName string) (upload.Job, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	repo     store.Repository
	uploads  Uploader
	metrics  *metrics.Registry
	logger   *logs.Logger
	analyzer *ai.HealthAnalyzer
	policy   notify.Policy

	now   func() time.Time
	ready func(context.Context) error
}

type Option func(*Handler)

// WithClock replaces time.Now for every recency calculation.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithReadinessCheck makes /ready depend on check, typically a database ping.
func WithReadinessCheck(check func(context.Context) error) Option {
	return func(h *Handler) { h.ready = check }
}

// NewHandler creates a new API handler.
func NewHandler(
	repo store.Repository,
	uploads Uploader,
	metrics *metrics.Registry,
	logger *logs.Logger,
	policy notify.Policy,
	opts ...Option,
) *Handler {
	h := &Handler{
		repo:     repo,
		uploads:  uploads,
		metrics:  metrics,
		logger:   logger,
		analyzer: ai.NewHealthAnalyzer(metrics, logger, policy),
		policy:   policy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// newestFirst loads the full history in the order the engine expects.
func (h *Handler) newestFirst(ctx context.Context) ([]exam.Record, error) {
	records, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return exam.SortNewestFirst(records), nil
}

/* ---------------- GET /api/v1/exams ---------------- */

func (h *Handler) ListExams(w http.ResponseWriter, r *http.Request) {
	records, err := h.newestFirst(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		want, err := exam.ParseStatus(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		filtered := make([]exam.Record, 0, len(records))
		for _, rec := range records {
			if rec.Status == want {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exams": records,
		"total": len(records),
	})
}

/* ---------------- POST /api/v1/exams ---------------- */

func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var in exam.Record
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := exam.NewRecord(in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.repo.Append(r.Context(), rec); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("exam recorded", "exam_id", rec.ID, "type", rec.ExamType, "status", rec.Status)
	writeJSON(w, http.StatusCreated, rec)
}

/* ---------------- GET /api/v1/exams/{id} ---------------- */

func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

/* ---------------- POST /api/v1/uploads ---------------- */

type uploadRequest struct {
	FileName string `json:"file_name"`
}

func (h *Handler) SubmitUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.uploads.Submit(req.FileName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/exams/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

/* ---------------- GET /api/v1/goals ---------------- */

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListGoals(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"goals": list,
		"total": len(list),
	})
}

/* ---------------- POST /api/v1/goals ---------------- */

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in goals.Goal
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	g, err := goals.NewGoal(in, h.now().UTC())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.repo.AddGoal(r.Context(), g); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

/* ---------------- POST /api/v1/goals/{id}/progress ---------------- */

type progressRequest struct {
	Value *float64 `json:"value"`
}

func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := requireID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in progressRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.Value == nil {
		h.writeError(w, r, apperr.Validation("invalid progress", map[string]string{
			"value": "value is required",
		}))
		return
	}

	g, err := h.repo.UpdateGoalProgress(r.Context(), id, *in.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("goal progress updated", "goal_id", g.ID, "progress", g.Progress, "status", g.Status)
	writeJSON(w, http.StatusOK, g)
}

// requireID rejects blank path parameters.
func requireID(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if id == "" {
		return "", apperr.BadRequest("missing " + name)
	}
	return id, nil
}
