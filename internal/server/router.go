package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Get("/chart.svg", s.handleChart)
	r.Get("/chart.png", s.handleChart)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/annotation", s.handleAnnotation)
		r.Get("/history", s.handleHistoryStatus)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	return r
}
