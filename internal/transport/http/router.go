package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"progress-dashboard/internal/app"
)

// NewRouter wires the REST endpoints and the live websocket feed.
func NewRouter(service *app.DashboardService, logger *zap.Logger, refresh time.Duration) http.Handler {
	h := NewHandler(service)
	ws := NewWSHandler(service, refresh)

	r := chi.NewRouter()
	r.Use(NewLoggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/assignments", h.ListAssignments)
		r.Get("/assignments/overview", h.Overview)
		r.Get("/students/{id}/assignments", h.StudentAssignments)
		r.Get("/students/{id}/activity", h.StudentActivity)
		r.Get("/users/{id}/tutorial", h.TutorialProgress)
		r.Put("/users/{id}/tutorial", h.SaveTutorialProgress)
	})
	r.Get("/ws", ws.ServeWS)
	return r
}
