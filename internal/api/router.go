package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface. Route shapes match the front end
// this service was built against, including the GET clear endpoint.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(Logging(app.log))

	r.Get("/health", app.Health)

	r.Route("/api/kg", func(r chi.Router) {
		r.Get("/query/all", app.QueryAll)
		r.Get("/query/filter", app.QueryFilter)
		r.Get("/query/node/detail", app.NodeDetail)
		r.Get("/query/domain/multi", app.MultiDomain)
		r.Get("/query/node/search", app.NodeSearch)
		r.Post("/query/node/search_or_ingest", app.SearchOrIngest)
		r.Post("/insert/from-front", app.InsertFromFront)
		r.Get("/clear/all", app.ClearAll)
		r.Get("/bootstrap/status", app.BootstrapStatus)
		r.Post("/bootstrap/trigger", app.BootstrapTrigger)
	})

	r.Post("/api/agent/generate_ingest", app.GenerateIngest)

	return r
}
