package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type APIV1Config struct {
	Deps APIV1Deps
}

// NewRouter builds the router served by HTTPServer:
// - /api/v1/* for the API
// - / for the web UI
func NewRouter(staticDir string, cfg APIV1Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/api/v1", apiV1Router(cfg.Deps))
	r.Handle("/*", StaticUIHandler(staticDir))
	return r
}
