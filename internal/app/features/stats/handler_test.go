package stats_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/features/stats"
	appstats "github.com/dalemusser/parishhub/internal/app/stats"
	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *stats.Handler {
	agg := appstats.New(db, nil, time.UTC, zap.NewNop())
	return stats.NewHandler(agg, statsstore.New(db), zap.NewNop())
}

func TestRollup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com", "")
	org := fx.CreateOrganization(ctx, "Parish", alice.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, alice.ID)
	fx.CreatePost(ctx, "today", alice.ID, com, time.Now().UTC())

	handler := newHandler(db)
	date := time.Now().UTC().Format("2006-01-02")

	req := httptest.NewRequest("POST", "/stats/rollup",
		strings.NewReader(`{"date":"`+date+`"}`))
	req = testutil.WithUser(req, testutil.NewTestUser("Admin"))
	rec := httptest.NewRecorder()
	handler.Rollup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Stats   struct {
			Date     string `json:"date"`
			NewPosts int64  `json:"new_posts"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Success || resp.Message != "rollup complete" {
		t.Errorf("response: got %+v", resp)
	}
	if resp.Stats.Date != date || resp.Stats.NewPosts != 1 {
		t.Errorf("stats: got %+v", resp.Stats)
	}

	// The persisted row is readable back through GET /stats/{date}.
	getReq := testutil.NewRequest("GET", "/stats/"+date)
	getReq = testutil.WithChiURLParam(getReq, "date", date)
	getRec := httptest.NewRecorder()
	handler.Show(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("show status: got %d (%s)", getRec.Code, getRec.Body.String())
	}
}

func TestRollup_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := newHandler(db)

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/stats/rollup", strings.NewReader(`{"date":"2025-01-01"}`))
		rec := httptest.NewRecorder()
		handler.Rollup(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/stats/rollup", strings.NewReader(`{"date":"yesterday"}`))
		req = testutil.WithUser(req, testutil.NewTestUser("Admin"))
		rec := httptest.NewRecorder()
		handler.Rollup(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestShow_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)

	handler := newHandler(db)

	req := testutil.NewRequest("GET", "/stats/1999-01-01")
	req = testutil.WithChiURLParam(req, "date", "1999-01-01")
	rec := httptest.NewRecorder()
	handler.Show(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
