// internal/app/features/shared/respond.go

// Package shared holds response helpers used by the feature handlers.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps a service error onto the HTTP contract:
//
//	{ "success": false, "message": "..." }
//
// Taxonomy sentinels choose the status; anything unrecognized is a 500
// with a generic message so internals never leak to clients.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrUnauthorized):
		status, message = http.StatusForbidden, "not allowed"
	case errors.Is(err, apperr.ErrInvalidQuery):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, apperr.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "temporarily unavailable"
	}
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	JSON(w, status, map[string]any{"success": false, "message": message})
}

// RequireUser extracts the authenticated caller or writes a 401.
func RequireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, id, ok := authz.UserCtx(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "message": "authentication required",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

// PathID parses a hex ObjectID path parameter value.
func PathID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrInvalidQuery
	}
	return id, nil
}
