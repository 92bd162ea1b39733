// internal/app/features/comments/routes.go
package comments

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the comment routes; expected to be mounted under
// /posts/{postID}/comments.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}
