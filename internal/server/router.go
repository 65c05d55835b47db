package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/brief/internal/api"
	"github.com/prepdeck/brief/internal/api/handlers"
	"github.com/prepdeck/brief/internal/api/middleware"
)

type RouterConfig struct {
	APIKey         string
	CompanyHandler *handlers.CompanyHandler
	AskHandler     *handlers.AskHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Route("/companies", func(r chi.Router) {
			r.Post("/", cfg.CompanyHandler.Create)
			r.Get("/{name}", cfg.CompanyHandler.Get)
		})

		r.Post("/ask", cfg.AskHandler.Ask)
	})

	return r
}
