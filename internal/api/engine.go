package api

import (
	"net/http"

	"healthtrack/internal/apperr"
	"healthtrack/internal/compare"
	"healthtrack/internal/exam"
	"healthtrack/internal/metrics"
	"healthtrack/internal/notify"
	"healthtrack/internal/status"
	"healthtrack/internal/trend"
)

/* ---------------- GET /api/v1/status ---------------- */

type statusResponse struct {
	Status       exam.Status     `json:"status"`
	Score        int             `json:"score"`
	Total        int             `json:"total"`
	Distribution []status.Bucket `json:"distribution"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	overall := status.Aggregate(records)
	writeJSON(w, http.StatusOK, statusResponse{
		Status:       overall,
		Score:        status.DisplayScore(overall),
		Total:        len(records),
		Distribution: status.Distribution(records),
	})
}

/* ---------------- GET /api/v1/trend ---------------- */

type trendResponse struct {
	trend.Result
	Monthly []trend.MonthCount `json:"monthly"`
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trendResponse{
		Result:  trend.Score(records),
		Monthly: trend.Monthly(records),
	})
}

/* ---------------- GET /api/v1/notifications ---------------- */

// notifications derives the current set with persisted read flags applied.
func (h *Handler) notifications(r *http.Request) ([]notify.Notification, error) {
	records, err := h.newestFirst(r.Context())
	if err != nil {
		return nil, err
	}
	readIDs, err := h.repo.ReadIDs(r.Context())
	if err != nil {
		return nil, err
	}

	ns := h.policy.Derive(records, h.now())
	h.metrics.Add(metrics.NotificationsDerivedTotal, int64(len(ns)))
	return notify.ApplyReadState(ns, readIDs), nil
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.notifications(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("unread") == "true" {
		unread := make([]notify.Notification, 0, len(ns))
		for _, n := range ns {
			if !n.Read {
				unread = append(unread, n)
			}
		}
		ns = unread
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": ns,
		"unread":        notify.UnreadCount(ns),
	})
}

/* ---------------- POST /api/v1/notifications/{id}/read ---------------- */

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := requireID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ns, err := h.notifications(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found := false
	for _, n := range ns {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		h.writeError(w, r, apperr.NotFound("notification", id))
		return
	}

	if err := h.repo.MarkRead(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	ns = notify.MarkRead(ns, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"unread": notify.UnreadCount(ns),
	})
}

/* ---------------- POST /api/v1/notifications/read-all ---------------- */

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ns, err := h.notifications(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ids := make([]string, 0, len(ns))
	for _, n := range ns {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	if err := h.repo.MarkRead(r.Context(), ids...); err != nil {
		h.writeError(w, r, err)
		return
	}

	ns = notify.MarkAllRead(ns)
	writeJSON(w, http.StatusOK, map[string]any{
		"marked": len(ids),
		"unread": notify.UnreadCount(ns),
	})
}

/* ---------------- GET /api/v1/compare?a=&b= ---------------- */

type examRef struct {
	ID       string      `json:"id"`
	ExamType string      `json:"type"`
	Date     exam.Date   `json:"date"`
	Status   exam.Status `json:"status"`
}

func refOf(r exam.Record) examRef {
	return examRef{ID: r.ID, ExamType: r.ExamType, Date: r.Date, Status: r.Status}
}

type compareResponse struct {
	A examRef `json:"a"`
	B examRef `json:"b"`
	compare.Result
}

func (h *Handler) CompareExams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	idA, idB := q.Get("a"), q.Get("b")
	if idA == "" || idB == "" {
		h.writeError(w, r, apperr.Validation("two exams are required", map[string]string{
			"a": idA,
			"b": idB,
		}))
		return
	}
	if idA == idB {
		h.writeError(w, r, apperr.BadRequest("choose two different exams to compare"))
		return
	}

	a, err := h.repo.Get(r.Context(), idA)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	b, err := h.repo.Get(r.Context(), idB)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.Inc(metrics.ComparisonsTotal)
	writeJSON(w, http.StatusOK, compareResponse{
		A:      refOf(a),
		B:      refOf(b),
		Result: compare.Compare(a, b),
	})
}

/* ---------------- GET /api/v1/report ---------------- */

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	readIDs, err := h.repo.ReadIDs(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(records, readIDs, h.now()))
}
