// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	appcomments "github.com/dalemusser/parishhub/internal/app/comments"
	"github.com/dalemusser/parishhub/internal/app/features/shared"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// defaultPageSize is the comment page size when the caller does not ask
// for one.
const defaultPageSize = 20

// Handler serves comment listing and creation under a post.
type Handler struct {
	Service *appcomments.Service
	Log     *zap.Logger
}

func NewHandler(service *appcomments.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Log: logger}
}

// List handles GET /posts/{postID}/comments?page=&pageSize=.
//
// Response:
//
//	{ "comments": [...], "total_count": n, "page": p, "page_size": s, "total_pages": t }
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.PathID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	page, err := paging.ParseCommentPage(r, defaultPageSize)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	listing, err := h.Service.List(ctx, postID, page)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, listing)
}

// createRequest is the POST body.
type createRequest struct {
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	AudioURL string `json:"audio_url"`
}

// Create handles POST /posts/{postID}/comments. Requires an
// authenticated community (or organization) member.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.RequireUser(w, r)
	if !ok {
		return
	}
	postID, err := shared.PathID(chi.URLParam(r, "postID"))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Error(w, h.Log, fmt.Errorf("decode body: %w", apperr.ErrInvalidQuery))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	attach := appcomments.Attachment{ImageURL: req.ImageURL, AudioURL: req.AudioURL}
	comment, err := h.Service.Add(ctx, postID, userID, req.Body, attach)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"success": true, "comment": comment})
}
