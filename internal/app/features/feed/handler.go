// internal/app/features/feed/handler.go
package feed

import (
	"context"
	"fmt"
	"net/http"

	appfeed "github.com/dalemusser/parishhub/internal/app/feed"
	"github.com/dalemusser/parishhub/internal/app/features/shared"
	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves read-only feed pages.
type Handler struct {
	Assembler *appfeed.Assembler
	Users     *userstore.Store
	Log       *zap.Logger
}

func NewHandler(assembler *appfeed.Assembler, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Assembler: assembler, Users: users, Log: logger}
}

// List handles GET /feed.
//
// Query parameters: organization_id, community_id (hex, both optional,
// ANDed), limit, after (opaque cursor). An authenticated caller with no
// explicit scope gets their selected organization's feed. Response:
//
//	{ "posts": [...], "next_cursor": "..." }
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q, err := h.parseQuery(r)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if q.OrganizationID == nil && q.CommunityID == nil {
		h.applyDefaultScope(ctx, r, &q)
	}

	page, err := h.Assembler.Assemble(ctx, q)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, page)
}

// applyDefaultScope narrows an unscoped request to the caller's
// selected organization. Best-effort: anonymous callers and lookup
// failures leave the global feed.
func (h *Handler) applyDefaultScope(ctx context.Context, r *http.Request, q *appfeed.Query) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		return
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	if user.SelectedOrganizationID != nil {
		q.OrganizationID = user.SelectedOrganizationID
	}
}

func (h *Handler) parseQuery(r *http.Request) (appfeed.Query, error) {
	limit, err := paging.ParseFeedLimit(r)
	if err != nil {
		return appfeed.Query{}, err
	}
	q := appfeed.Query{
		Limit: limit,
		After: query.Get(r, "after"),
	}
	if s := query.Get(r, "organization_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return appfeed.Query{}, fmt.Errorf("organization_id %q: %w", s, apperr.ErrInvalidQuery)
		}
		q.OrganizationID = &id
	}
	if s := query.Get(r, "community_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return appfeed.Query{}, fmt.Errorf("community_id %q: %w", s, apperr.ErrInvalidQuery)
		}
		q.CommunityID = &id
	}
	return q, nil
}
