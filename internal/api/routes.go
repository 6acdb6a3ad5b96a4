package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	// RateLimiter guards /api/v1 when set
	RateLimiter *IPRateLimiter
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(h.metrics.Middleware)

	// Observability APIs
	r.Get("/health", h.GetHealth)
	r.Get("/ready", h.GetReady)
	r.Handle("/metrics", h.metrics.Handler())

	// Admin APIs
	r.Get("/admin/logs", h.GetLogs)

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/exams", h.ListExams)
		r.Post("/exams", h.CreateExam)
		r.Get("/exams/{id}", h.GetExam)
		r.Post("/uploads", h.SubmitUpload)

		r.Get("/status", h.GetStatus)
		r.Get("/trend", h.GetTrend)
		r.Get("/report", h.GetReport)
		r.Get("/compare", h.CompareExams)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/read-all", h.MarkAllNotificationsRead)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)

		r.Get("/goals", h.ListGoals)
		r.Post("/goals", h.CreateGoal)
		r.Post("/goals/{id}/progress", h.UpdateGoalProgress)
	})

	// Recovery sits outside the router so it also covers routing itself.
	return Chain(r, RecoveryMiddleware(h.logger))
}
