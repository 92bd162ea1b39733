// internal/app/features/stats/handler.go
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/features/shared"
	appstats "github.com/dalemusser/parishhub/internal/app/stats"
	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the daily rollup endpoints.
type Handler struct {
	Aggregator *appstats.Aggregator
	Store      *statsstore.Store
	Log        *zap.Logger
}

func NewHandler(aggregator *appstats.Aggregator, store *statsstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Aggregator: aggregator, Store: store, Log: logger}
}

// rollupRequest is the POST /stats/rollup body.
type rollupRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// Rollup handles POST /stats/rollup: recompute and persist one day.
// The date comes from the "date" query parameter or the JSON body and
// defaults to today in the configured time zone.
//
// Response: { "success": true, "message": "rollup complete", "stats": {...} }
func (h *Handler) Rollup(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.RequireUser(w, r); !ok {
		return
	}
	date := query.Get(r, "date")
	if date == "" {
		var req rollupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			shared.Error(w, h.Log, fmt.Errorf("decode body: %w", apperr.ErrInvalidQuery))
			return
		}
		date = req.Date
	}
	if date == "" {
		date = h.Aggregator.Today()
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	row, err := h.Aggregator.ComputeAndPersist(ctx, date)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "rollup complete",
		"stats":   row,
	})
}

// Show handles GET /stats/{date}: one persisted rollup row.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	row, err := h.Store.GetByDate(ctx, date)
	if err != nil {
		shared.Error(w, h.Log, apperr.FromStore(err))
		return
	}
	shared.JSON(w, http.StatusOK, row)
}
