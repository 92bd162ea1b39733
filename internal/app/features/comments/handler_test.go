package comments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appcomments "github.com/dalemusser/parishhub/internal/app/comments"
	"github.com/dalemusser/parishhub/internal/app/features/comments"
	appfeed "github.com/dalemusser/parishhub/internal/app/feed"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type noopNotifier struct{}

func (noopNotifier) OnCommentCreated(context.Context, models.Post) error { return nil }

func newHandler(db *mongo.Database) *comments.Handler {
	asm := appfeed.New(db, zap.NewNop())
	svc := appcomments.New(db, asm, noopNotifier{}, zap.NewNop())
	return comments.NewHandler(svc, zap.NewNop())
}

func TestCreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Alice", "alice@example.com", "")
	org := fx.CreateOrganization(ctx, "Parish", author.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, author.ID)
	post := fx.CreatePost(ctx, "hello", author.ID, com, time.Now().UTC().Add(-time.Hour))

	handler := newHandler(db)

	req := httptest.NewRequest("POST", "/posts/"+post.ID.Hex()+"/comments",
		strings.NewReader(`{"body":"first!"}`))
	req = testutil.WithUser(req, testutil.AsTestUser(author.ID, "Alice"))
	req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rec.Code, rec.Body.String())
	}

	req = testutil.NewRequest("GET", "/posts/"+post.ID.Hex()+"/comments")
	req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
	rec = httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var listing struct {
		Comments []struct {
			Body       string `json:"body"`
			AuthorName string `json:"author_name"`
		} `json:"comments"`
		TotalCount int `json:"total_count"`
		TotalPages int `json:"total_pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if listing.TotalCount != 1 || len(listing.Comments) != 1 {
		t.Fatalf("listing: got %+v", listing)
	}
	if listing.Comments[0].Body != "first!" || listing.Comments[0].AuthorName != "Alice" {
		t.Errorf("comment: got %+v", listing.Comments[0])
	}
}

func TestCreate_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Alice", "alice@example.com", "")
	outsider := fx.CreateUser(ctx, "Mallory", "mallory@example.com", "")
	org := fx.CreateOrganization(ctx, "Parish", author.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, author.ID)
	post := fx.CreatePost(ctx, "hello", author.ID, com, time.Now().UTC())

	handler := newHandler(db)

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/x", strings.NewReader(`{"body":"hi"}`))
		req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
		rec := httptest.NewRecorder()
		handler.Create(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("non-member", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/x", strings.NewReader(`{"body":"hi"}`))
		req = testutil.WithUser(req, testutil.AsTestUser(outsider.ID, "Mallory"))
		req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
		rec := httptest.NewRecorder()
		handler.Create(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rec.Code)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/x", strings.NewReader(`{"body":"hi"}`))
		req = testutil.WithUser(req, testutil.AsTestUser(author.ID, "Alice"))
		req = testutil.WithChiURLParam(req, "postID", "ffffffffffffffffffffffff")
		rec := httptest.NewRecorder()
		handler.Create(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}

func TestList_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateUser(ctx, "Alice", "alice@example.com", "")
	org := fx.CreateOrganization(ctx, "Parish", author.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, author.ID)
	post := fx.CreatePost(ctx, "hello", author.ID, com, time.Now().UTC().Add(-time.Hour))

	base := time.Now().UTC().Add(-30 * time.Minute)
	for i := 0; i < 7; i++ {
		fx.CreateComment(ctx, "c", author.ID, post, base.Add(time.Duration(i)*time.Second))
	}

	handler := newHandler(db)

	req := testutil.NewRequest("GET", "/x?page=2&pageSize=3")
	req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	var listing struct {
		Comments   []json.RawMessage `json:"comments"`
		TotalCount int               `json:"total_count"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(listing.Comments) != 3 || listing.TotalCount != 7 || listing.TotalPages != 3 {
		t.Errorf("listing: got %d rows, count %d, pages %d",
			len(listing.Comments), listing.TotalCount, listing.TotalPages)
	}

	t.Run("bad page", func(t *testing.T) {
		req := testutil.NewRequest("GET", "/x?page=0")
		req = testutil.WithChiURLParam(req, "postID", post.ID.Hex())
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}
