// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	appfeed "github.com/dalemusser/parishhub/internal/app/feed"
	apposts "github.com/dalemusser/parishhub/internal/app/posts"
	"github.com/dalemusser/parishhub/internal/app/features/shared"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the post write path and single-post reads.
type Handler struct {
	Service   *apposts.Service
	Assembler *appfeed.Assembler
	Log       *zap.Logger
}

func NewHandler(service *apposts.Service, assembler *appfeed.Assembler, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Assembler: assembler, Log: logger}
}

// createRequest is the POST /posts body.
type createRequest struct {
	CommunityID   string `json:"community_id"`
	Body          string `json:"body"`
	ImageURL      string `json:"image_url,omitempty"`
	AudioURL      string `json:"audio_url,omitempty"`
	VideoUploadID string `json:"video_upload_id,omitempty"`
}

// Create handles POST /posts. Requires an authenticated caller who is a
// member of the target community. Returns 201 with the stored post.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.RequireUser(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Error(w, h.Log, fmt.Errorf("decode body: %w", apperr.ErrInvalidQuery))
		return
	}
	communityID, err := shared.PathID(req.CommunityID)
	if err != nil {
		shared.Error(w, h.Log, fmt.Errorf("community_id %q: %w", req.CommunityID, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Service.Create(ctx, userID, apposts.Input{
		CommunityID:   communityID,
		Body:          req.Body,
		ImageURL:      req.ImageURL,
		AudioURL:      req.AudioURL,
		VideoUploadID: req.VideoUploadID,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"success": true, "post": post})
}

// Show handles GET /posts/{postID}: one populated top-level post.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.PathID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Assembler.AssemblePost(ctx, postID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, view)
}

// ToggleLike handles POST /posts/{postID}/like. Response:
//
//	{ "success": true, "liked": bool, "like_count": n }
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.RequireUser(w, r)
	if !ok {
		return
	}
	postID, err := shared.PathID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, count, err := h.Service.ToggleLike(ctx, postID, userID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"liked":      liked,
		"like_count": count,
	})
}
