package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RetrieveHandler *handlers.RetrieveHandler
	HealthHandler   *handlers.HealthHandler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/retrieve", deps.RetrieveHandler)
		r.Method(http.MethodGet, "/health", deps.HealthHandler)
	})

	return r
}
