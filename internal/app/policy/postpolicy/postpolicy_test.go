package postpolicy_test

import (
	"testing"

	"github.com/dalemusser/parishhub/internal/app/policy/postpolicy"
	"github.com/dalemusser/parishhub/internal/testutil"
)

func TestPolicy_MembershipRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", "")
	member := fx.CreateUser(ctx, "Member", "member@example.com", "")
	outsider := fx.CreateUser(ctx, "Outsider", "outsider@example.com", "")

	org := fx.CreateOrganization(ctx, "Parish", owner.ID)
	com := fx.CreateCommunity(ctx, "Choir", org.ID, member.ID)

	policy := postpolicy.New(db)

	ok, err := policy.CanPost(ctx, com.ID, org.ID, member.ID)
	if err != nil || !ok {
		t.Errorf("community member: got (%v, %v), want allowed", ok, err)
	}

	// The owner is an organization member but not in the community.
	ok, err = policy.CanComment(ctx, com.ID, org.ID, owner.ID)
	if err != nil || !ok {
		t.Errorf("organization member: got (%v, %v), want allowed", ok, err)
	}

	ok, err = policy.CanLike(ctx, com.ID, org.ID, outsider.ID)
	if err != nil {
		t.Fatalf("CanLike failed: %v", err)
	}
	if ok {
		t.Error("outsider: want denied")
	}
}
