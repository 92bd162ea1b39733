// internal/app/system/paging/paging.go
package paging

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFeedLimit is the page size used when the caller does not ask
// for one.
const DefaultFeedLimit = 10

// MaxFeedLimit caps a single feed page to protect the store.
const MaxFeedLimit = 50

// MaxCommentPageSize caps a single comment page.
const MaxCommentPageSize = 100

// ClampFeedLimit validates and normalizes a requested feed limit.
// Zero means "use the default"; negative values are rejected.
func ClampFeedLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultFeedLimit, nil
	case limit < 0:
		return 0, fmt.Errorf("limit must be positive: %w", apperr.ErrInvalidQuery)
	case limit > MaxFeedLimit:
		return MaxFeedLimit, nil
	default:
		return limit, nil
	}
}

// ParseFeedLimit extracts the "limit" query parameter. Absent or
// non-numeric input falls back to the default; explicit non-positive
// input is an error.
func ParseFeedLimit(r *http.Request) (int, error) {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultFeedLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit %q: %w", s, apperr.ErrInvalidQuery)
	}
	return ClampFeedLimit(n)
}

// EncodeFeedCursor builds an opaque cursor from a post's creation time
// and ID. The pair uniquely positions the post within the newest-first
// feed ordering.
func EncodeFeedCursor(createdAt time.Time, id primitive.ObjectID) string {
	return wafflemongo.EncodeCursor(strconv.FormatInt(createdAt.UnixNano(), 10), id)
}

// DecodeFeedCursor reverses EncodeFeedCursor. ok is false for blank or
// malformed cursors.
func DecodeFeedCursor(s string) (createdAt time.Time, id primitive.ObjectID, ok bool) {
	if s == "" {
		return time.Time{}, primitive.NilObjectID, false
	}
	c, ok := wafflemongo.DecodeCursor(s)
	if !ok {
		return time.Time{}, primitive.NilObjectID, false
	}
	nanos, err := strconv.ParseInt(c.CI, 10, 64)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, false
	}
	return time.Unix(0, nanos).UTC(), c.ID, true
}

// FeedWindow returns the filter clause selecting posts strictly older
// than the cursor position in (created_at desc, _id desc) order.
func FeedWindow(createdAt time.Time, id primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"created_at": bson.M{"$lt": createdAt}},
		bson.M{"created_at": createdAt, "_id": bson.M{"$lt": id}},
	}}
}

// FeedSort is the canonical newest-first feed ordering.
func FeedSort() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// CommentPage holds validated offset pagination for comment listings.
type CommentPage struct {
	Page     int
	PageSize int
}

// ValidateCommentPage checks 1-based page and pageSize.
func ValidateCommentPage(page, pageSize int) (CommentPage, error) {
	if page < 1 {
		return CommentPage{}, fmt.Errorf("page must be >= 1: %w", apperr.ErrInvalidQuery)
	}
	if pageSize < 1 {
		return CommentPage{}, fmt.Errorf("pageSize must be >= 1: %w", apperr.ErrInvalidQuery)
	}
	if pageSize > MaxCommentPageSize {
		pageSize = MaxCommentPageSize
	}
	return CommentPage{Page: page, PageSize: pageSize}, nil
}

// Skip returns the document offset for the page.
func (p CommentPage) Skip() int64 { return int64((p.Page - 1) * p.PageSize) }

// Limit returns the page size as int64 for Find().SetLimit.
func (p CommentPage) Limit() int64 { return int64(p.PageSize) }

// TotalPages computes the page count for a total row count.
func (p CommentPage) TotalPages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	ps := int64(p.PageSize)
	return (total + ps - 1) / ps
}

// ParseCommentPage extracts "page" and "pageSize" query parameters with
// 1 / defaultSize fallbacks for absent values.
func ParseCommentPage(r *http.Request, defaultSize int) (CommentPage, error) {
	page := 1
	if s := query.Get(r, "page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return CommentPage{}, fmt.Errorf("page %q: %w", s, apperr.ErrInvalidQuery)
		}
		page = n
	}
	size := defaultSize
	if s := query.Get(r, "pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return CommentPage{}, fmt.Errorf("pageSize %q: %w", s, apperr.ErrInvalidQuery)
		}
		size = n
	}
	return ValidateCommentPage(page, size)
}
