// internal/app/features/feed/routes.go
package feed

import "github.com/go-chi/chi/v5"

// Routes returns the feed subrouter; mounted under /feed.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}
