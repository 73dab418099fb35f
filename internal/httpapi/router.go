package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matheuslc/snipnest_api/internal/telemetry"
)

type App struct {
	ServiceName string
	Health      *HealthHandler
	Snippets    *SnippetsHandler
	Search      *SearchHandler
	Tags        *TagsHandler
}

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.ChiTraceMiddleware(app.ServiceName))
	r.Use(telemetry.ChiMetricsMiddleware)
	r.Use(telemetry.ChiLogMiddleware(app.ServiceName))

	r.Get("/", root)
	r.Get("/health", app.Health.Get)

	r.Route("/snippets", func(r chi.Router) {
		r.Post("/", app.Snippets.Create)
		r.Get("/", app.Snippets.List)
		r.Get("/{id}", app.Snippets.GetByID)
		r.Put("/{id}", app.Snippets.Update)
		r.Delete("/{id}", app.Snippets.Delete)
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/snippets", app.Search.Search)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", app.Tags.List)
	})

	return r
}

func root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "Knowledge Snippet API up and running",
	})
}
