// Package api exposes the event request engine over JSON HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes builds the router for h
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/event-requests", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Submit)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/staffing", h.Staffing)
			r.Get("/audit", h.Audit)
			r.Post("/signup", h.Signup)
			r.Post("/assign", h.Assign)
			r.Post("/unassign", h.Unassign)
			r.Post("/rename", h.Rename)
			r.Post("/status", h.ChangeStatus)
		})
	})
	r.Get("/follow-ups", h.FollowUps)

	return r
}

// requestLogger logs each request once it has been served
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("Request served",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
