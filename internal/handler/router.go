package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Healthcheck probes a backing dependency.
type Healthcheck func(context.Context) error

// NewRouter assembles the application router: common middleware, the auth
// endpoints under /api/auth, and a health probe.
func NewRouter(authHandler *AuthHandler, health Healthcheck) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Mount("/api/auth", authHandler.Routes())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	})

	return r
}
