// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it
// returns "", NilObjectID, false. Callers can trust that ok=true means
// an authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed identity header - fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

// UserID returns just the caller's ObjectID, NilObjectID when absent.
func UserID(r *http.Request) primitive.ObjectID {
	_, id, ok := UserCtx(r)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}
