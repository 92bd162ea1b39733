// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared across the service.
//
// Stores and services return these sentinels (usually wrapped with
// fmt.Errorf and %w); handlers map them to HTTP statuses. Gateway send
// failures are never propagated past the fan-out engine; they only
// show up in the informational delivery summary.
package apperr

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the caller lacks membership or ownership.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidQuery means malformed pagination or filter input.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStoreUnavailable is a transient infrastructure failure; safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrGatewaySendFailed is a per-recipient delivery failure.
	ErrGatewaySendFailed = errors.New("gateway send failed")
)

// FromStore maps a mongo-driver error to the taxonomy. Decode misses
// become ErrNotFound; timeouts, network errors, and server selection
// failures become ErrStoreUnavailable; anything else passes through.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if IsTransient(err) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}

// IsTransient reports whether the store error is worth one transparent retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		// Mongo "not primary"/shutdown class errors surface during failover.
		return se.HasErrorLabel("RetryableWriteError") || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}
