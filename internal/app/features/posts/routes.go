// internal/app/features/posts/routes.go
package posts

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the post routes on the given router; expected to
// be mounted under /posts.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{postID}", h.Show)
	r.Post("/{postID}/like", h.ToggleLike)
}
