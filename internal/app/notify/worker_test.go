package notify_test

import (
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/notify"
	intentstore "github.com/dalemusser/parishhub/internal/app/store/intents"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.uber.org/zap"
)

func TestWorker_ProcessOne_ClaimDispatchSettle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := fx.CreateUser(ctx, "Actor", "actor@example.com", "")
	member := fx.CreateUser(ctx, "Member", "member@example.com", "+15550000001")
	org := fx.CreateOrganization(ctx, "Parish", actor.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, actor.ID, member.ID)
	post := fx.CreatePost(ctx, "hello", actor.ID, com, time.Now().UTC())

	gw := &fakeGateway{}
	engine := notify.NewEngine(db, gw, true, zap.NewNop())
	if err := engine.OnPostCreated(ctx, post); err != nil {
		t.Fatalf("OnPostCreated failed: %v", err)
	}

	worker := notify.NewWorker(db, engine, time.Minute, time.Minute, zap.NewNop())

	processed, err := worker.ProcessOne(ctx)
	if err != nil {
		t.Fatalf("ProcessOne failed: %v", err)
	}
	if !processed {
		t.Fatal("expected the pending intent to be processed")
	}
	if phones := gw.sentPhones(); len(phones) != 1 || phones[0] != "+15550000001" {
		t.Errorf("sends: got %v, want the one member with a phone", phones)
	}

	intents := intentstore.New(db)
	n, err := intents.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if n != 0 {
		t.Errorf("pending after settle: got %d, want 0", n)
	}

	var settled models.NotificationIntent
	if err := db.Collection("notification_intents").
		FindOne(ctx, map[string]any{"post_id": post.ID}).Decode(&settled); err != nil {
		t.Fatalf("read back intent: %v", err)
	}
	if settled.Status != models.IntentDone {
		t.Errorf("status: got %q, want done", settled.Status)
	}
	if settled.Attempted != 1 || settled.Sent != 1 || settled.Failed != 0 {
		t.Errorf("summary: got {%d %d %d}, want {1 1 0}",
			settled.Attempted, settled.Sent, settled.Failed)
	}
}

func TestWorker_ProcessOne_EmptyOutbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	engine := notify.NewEngine(db, &fakeGateway{}, true, zap.NewNop())
	worker := notify.NewWorker(db, engine, time.Minute, time.Minute, zap.NewNop())

	processed, err := worker.ProcessOne(ctx)
	if err != nil {
		t.Fatalf("ProcessOne failed: %v", err)
	}
	if processed {
		t.Error("expected nothing to process on an empty outbox")
	}
}

func TestWorker_Drain_ProcessesAllPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := fx.CreateUser(ctx, "Actor", "actor@example.com", "")
	member := fx.CreateUser(ctx, "Member", "member@example.com", "+15550000001")
	org := fx.CreateOrganization(ctx, "Parish", actor.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, actor.ID, member.ID)

	engine := notify.NewEngine(db, &fakeGateway{}, true, zap.NewNop())
	for i := 0; i < 3; i++ {
		post := fx.CreatePost(ctx, "post", actor.ID, com, time.Now().UTC())
		if err := engine.OnPostCreated(ctx, post); err != nil {
			t.Fatalf("OnPostCreated failed: %v", err)
		}
	}

	worker := notify.NewWorker(db, engine, time.Minute, time.Minute, zap.NewNop())
	worker.Drain(ctx)

	n, err := intentstore.New(db).CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if n != 0 {
		t.Errorf("pending after drain: got %d, want 0", n)
	}
}
