// internal/app/features/stats/routes.go
package stats

import "github.com/go-chi/chi/v5"

// Routes returns the stats subrouter; mounted under /stats.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/rollup", h.Rollup)
	r.Get("/{date}", h.Show)
	return r
}
