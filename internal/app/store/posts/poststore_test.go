package poststore_test

import (
	"sync"
	"testing"
	"time"

	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_FindFeed_OrderAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		fixtures.CreatePost(ctx, "post", author.ID, com, base.Add(time.Duration(i)*time.Minute))
	}
	// A comment must never appear in a feed.
	parent := fixtures.CreatePost(ctx, "parent", author.ID, com, base.Add(10*time.Minute))
	fixtures.CreateComment(ctx, "reply", author.ID, parent, base.Add(11*time.Minute))

	comID := com.ID
	posts, err := store.FindFeed(ctx, poststore.FeedFilter{CommunityID: &comID}, 3)
	if err != nil {
		t.Fatalf("FindFeed failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Errorf("posts not newest-first at index %d", i)
		}
	}
	for _, p := range posts {
		if p.IsComment() {
			t.Errorf("comment %v leaked into the feed", p.ID)
		}
	}
}

func TestStore_FindFeed_CursorPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 6; i++ {
		fixtures.CreatePost(ctx, "post", author.ID, com, base.Add(time.Duration(i)*time.Minute))
	}

	comID := com.ID
	first, err := store.FindFeed(ctx, poststore.FeedFilter{CommunityID: &comID}, 4)
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("first page: got %d posts, want 4", len(first))
	}

	last := first[len(first)-1]
	second, err := store.FindFeed(ctx, poststore.FeedFilter{
		CommunityID:     &comID,
		CursorCreatedAt: last.CreatedAt,
		CursorID:        last.ID,
	}, 4)
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second page: got %d posts, want 2", len(second))
	}
	for _, p := range second {
		if !p.CreatedAt.Before(last.CreatedAt) {
			t.Errorf("second page post %v not older than cursor", p.ID)
		}
	}
}

func TestStore_FindFeed_ScopesAreANDed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org1 := fixtures.CreateOrganization(ctx, "Parish One", author.ID)
	org2 := fixtures.CreateOrganization(ctx, "Parish Two", author.ID)
	com1 := fixtures.CreateCommunity(ctx, "Choir", org1.ID, author.ID)
	com2 := fixtures.CreateCommunity(ctx, "Youth", org2.ID, author.ID)

	now := time.Now().UTC()
	fixtures.CreatePost(ctx, "in org1/com1", author.ID, com1, now)
	fixtures.CreatePost(ctx, "in org2/com2", author.ID, com2, now)

	orgID, comID := org1.ID, com2.ID
	posts, err := store.FindFeed(ctx, poststore.FeedFilter{OrganizationID: &orgID, CommunityID: &comID}, 10)
	if err != nil {
		t.Fatalf("FindFeed failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("mismatched scopes should return nothing, got %d posts", len(posts))
	}
}

func TestStore_ListComments_PageAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	parent := fixtures.CreatePost(ctx, "parent", author.ID, com, base)
	for i := 0; i < 12; i++ {
		fixtures.CreateComment(ctx, "c", author.ID, parent, base.Add(time.Duration(i+1)*time.Minute))
	}

	page, err := paging.ValidateCommentPage(2, 5)
	if err != nil {
		t.Fatalf("ValidateCommentPage: %v", err)
	}
	comments, err := store.ListComments(ctx, parent.ID, page)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	// 12 comments newest-first: page 2 of 5 holds comments 6-10.
	if len(comments) != 5 {
		t.Fatalf("expected 5 comments, got %d", len(comments))
	}

	total, err := store.CountComments(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CountComments failed: %v", err)
	}
	if total != 12 {
		t.Errorf("total: got %d, want 12", total)
	}
	if got := page.TotalPages(total); got != 3 {
		t.Errorf("totalPages: got %d, want 3", got)
	}
}

func TestStore_CountCommentsForParents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)

	now := time.Now().UTC()
	p1 := fixtures.CreatePost(ctx, "one", author.ID, com, now)
	p2 := fixtures.CreatePost(ctx, "two", author.ID, com, now)
	fixtures.CreateComment(ctx, "c1", author.ID, p1, now)
	fixtures.CreateComment(ctx, "c2", author.ID, p1, now)

	counts, err := store.CountCommentsForParents(ctx, []primitive.ObjectID{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("CountCommentsForParents failed: %v", err)
	}
	if counts[p1.ID] != 2 {
		t.Errorf("p1 count: got %d, want 2", counts[p1.ID])
	}
	if _, present := counts[p2.ID]; present {
		t.Error("p2 should be absent (no comments)")
	}
}

func TestStore_LatestCommentsForParents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	parent := fixtures.CreatePost(ctx, "parent", author.ID, com, base)
	fixtures.CreateComment(ctx, "oldest", author.ID, parent, base.Add(1*time.Minute))
	fixtures.CreateComment(ctx, "middle", author.ID, parent, base.Add(2*time.Minute))
	newest := fixtures.CreateComment(ctx, "newest", author.ID, parent, base.Add(3*time.Minute))

	previews, err := store.LatestCommentsForParents(ctx, []primitive.ObjectID{parent.ID}, 2)
	if err != nil {
		t.Fatalf("LatestCommentsForParents failed: %v", err)
	}
	got := previews[parent.ID]
	if len(got) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(got))
	}
	if got[0].ID != newest.ID {
		t.Errorf("expected newest comment first, got %q", got[0].Body)
	}
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)
	post := fixtures.CreatePost(ctx, "post", author.ID, com, time.Now().UTC())

	user := primitive.NewObjectID()
	liked, err := store.ToggleLike(ctx, post.ID, user)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}
	liked, err = store.ToggleLike(ctx, post.ID, user)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.LikeIDs) != 0 {
		t.Errorf("expected no likes after unlike, got %v", got.LikeIDs)
	}
}

func TestStore_AddLike_ConcurrentUsersEachOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Author", "author@example.com", "")
	org := fixtures.CreateOrganization(ctx, "Parish", author.ID)
	com := fixtures.CreateCommunity(ctx, "Choir", org.ID, author.ID)
	post := fixtures.CreatePost(ctx, "post", author.ID, com, time.Now().UTC())

	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	var wg sync.WaitGroup
	for _, u := range []primitive.ObjectID{u1, u2, u1, u2} {
		wg.Add(1)
		go func(uid primitive.ObjectID) {
			defer wg.Done()
			_ = store.AddLike(ctx, post.ID, uid)
		}(u)
	}
	wg.Wait()

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	seen := map[primitive.ObjectID]int{}
	for _, id := range got.LikeIDs {
		seen[id]++
	}
	if seen[u1] != 1 || seen[u2] != 1 || len(got.LikeIDs) != 2 {
		t.Errorf("likes: got %v, want each of two users exactly once", got.LikeIDs)
	}
}
