package api

import (
	"net/http"
	"strconv"

	"healthtrack/internal/apperr"
)

/* ---------------- GET /health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

/* ---------------- GET /ready ---------------- */

func (h *Handler) GetReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"server": "ready",
	}

	ready := true
	if h.ready == nil {
		checks["database"] = "not configured"
	} else if err := h.ready(r.Context()); err != nil {
		checks["database"] = "not ready: " + err.Error()
		ready = false
	} else {
		checks["database"] = "ready"
	}

	code, state := http.StatusOK, "ready"
	if !ready {
		code, state = http.StatusServiceUnavailable, "not ready"
	}
	writeJSON(w, code, map[string]any{
		"status": state,
		"checks": checks,
	})
}

/* ---------------- GET /admin/logs ---------------- */

const defaultLogLimit = 100

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	n := defaultLogLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.writeError(w, r, apperr.BadRequest("n must be a positive integer"))
			return
		}
		n = v
	}

	writeJSON(w, http.StatusOK, h.logger.GetLast(n))
}
