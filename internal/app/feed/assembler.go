// internal/app/feed/assembler.go

// Package feed builds paginated, populated feed payloads for a
// requested scope: global, organization, community, or a single post.
package feed

import (
	"context"
	"fmt"
	"time"

	communitystore "github.com/dalemusser/parishhub/internal/app/store/communities"
	organizationstore "github.com/dalemusser/parishhub/internal/app/store/organizations"
	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PreviewComments is how many newest comments ride along with each feed
// post.
const PreviewComments = 2

// Query selects the feed scope and page. Organization and community
// filters are ANDed when both are set.
type Query struct {
	OrganizationID *primitive.ObjectID
	CommunityID    *primitive.ObjectID
	Limit          int
	After          string // opaque cursor from a previous page
}

// CommentView is a populated comment stub.
type CommentView struct {
	ID         string       `json:"id"`
	Body       string       `json:"body"`
	Media      models.Media `json:"media,omitempty"`
	AuthorID   string       `json:"author_id"`
	AuthorName string       `json:"author_name"`
	CreatedAt  time.Time    `json:"created_at"`
}

// PostView is the caller-ready feed entry. Related entities always
// carry a human-readable name alongside the identifier; a name is blank
// only when the related document no longer exists.
type PostView struct {
	ID               string        `json:"id"`
	Body             string        `json:"body"`
	Media            models.Media  `json:"media,omitempty"`
	AuthorID         string        `json:"author_id"`
	AuthorName       string        `json:"author_name"`
	OrganizationID   string        `json:"organization_id"`
	OrganizationName string        `json:"organization_name"`
	CommunityID      string        `json:"community_id"`
	CommunityName    string        `json:"community_name"`
	LikeCount        int           `json:"like_count"`
	CommentCount     int64         `json:"comment_count"`
	Comments         []CommentView `json:"comments"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Page is one assembled feed page.
type Page struct {
	Posts      []PostView `json:"posts"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Assembler builds feed pages from the entity stores. Read-only.
type Assembler struct {
	posts       *poststore.Store
	users       *userstore.Store
	orgs        *organizationstore.Store
	communities *communitystore.Store
	log         *zap.Logger
}

// New creates an Assembler over the given database.
func New(db *mongo.Database, logger *zap.Logger) *Assembler {
	return &Assembler{
		posts:       poststore.New(db),
		users:       userstore.New(db),
		orgs:        organizationstore.New(db),
		communities: communitystore.New(db),
		log:         logger,
	}
}

// Assemble returns one feed page for the query scope, newest-first.
// A transient store failure is retried once before surfacing as
// StoreUnavailable.
func (a *Assembler) Assemble(ctx context.Context, q Query) (Page, error) {
	limit, err := paging.ClampFeedLimit(q.Limit)
	if err != nil {
		return Page{}, err
	}

	filter := poststore.FeedFilter{
		OrganizationID: q.OrganizationID,
		CommunityID:    q.CommunityID,
	}
	if q.After != "" {
		at, id, ok := paging.DecodeFeedCursor(q.After)
		if !ok {
			return Page{}, fmt.Errorf("cursor %q: %w", q.After, apperr.ErrInvalidQuery)
		}
		filter.CursorCreatedAt = at
		filter.CursorID = id
	}

	posts, err := a.posts.FindFeed(ctx, filter, limit)
	if apperr.IsTransient(err) {
		a.log.Warn("feed query failed, retrying once", zap.Error(err))
		posts, err = a.posts.FindFeed(ctx, filter, limit)
	}
	if err != nil {
		return Page{}, apperr.FromStore(err)
	}

	views := a.populate(ctx, posts)

	page := Page{Posts: views}
	if len(posts) == limit {
		last := posts[len(posts)-1]
		page.NextCursor = paging.EncodeFeedCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

// AssemblePost returns the populated view of one top-level post.
func (a *Assembler) AssemblePost(ctx context.Context, postID primitive.ObjectID) (PostView, error) {
	post, err := a.posts.GetByID(ctx, postID)
	if err != nil {
		return PostView{}, apperr.FromStore(err)
	}
	if post.IsComment() {
		return PostView{}, fmt.Errorf("post %s is a comment: %w", postID.Hex(), apperr.ErrNotFound)
	}
	views := a.populate(ctx, []models.Post{post})
	return views[0], nil
}

// populate joins author, community, and organization names plus comment
// counts and previews onto the raw posts. Every sub-lookup is tolerant:
// a failed or missing relation degrades its fields and never fails the
// page.
func (a *Assembler) populate(ctx context.Context, posts []models.Post) []PostView {
	if len(posts) == 0 {
		return []PostView{}
	}

	postIDs := make([]primitive.ObjectID, 0, len(posts))
	authorSet := map[primitive.ObjectID]struct{}{}
	orgSet := map[primitive.ObjectID]struct{}{}
	comSet := map[primitive.ObjectID]struct{}{}
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorSet[p.AuthorID] = struct{}{}
		orgSet[p.OrganizationID] = struct{}{}
		comSet[p.CommunityID] = struct{}{}
	}

	counts, err := a.posts.CountCommentsForParents(ctx, postIDs)
	if err != nil {
		a.log.Warn("comment counts unavailable", zap.Error(err))
	}
	previews, err := a.posts.LatestCommentsForParents(ctx, postIDs, PreviewComments)
	if err != nil {
		a.log.Warn("comment previews unavailable", zap.Error(err))
	}
	for _, stubs := range previews {
		for _, c := range stubs {
			authorSet[c.AuthorID] = struct{}{}
		}
	}

	userNames := a.userNames(ctx, keys(authorSet))
	orgNames := a.orgNames(ctx, keys(orgSet))
	comNames := a.communityNames(ctx, keys(comSet))

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view := PostView{
			ID:               p.ID.Hex(),
			Body:             p.Body,
			Media:            p.Media,
			AuthorID:         p.AuthorID.Hex(),
			AuthorName:       userNames[p.AuthorID],
			OrganizationID:   p.OrganizationID.Hex(),
			OrganizationName: orgNames[p.OrganizationID],
			CommunityID:      p.CommunityID.Hex(),
			CommunityName:    comNames[p.CommunityID],
			LikeCount:        len(p.LikeIDs),
			CommentCount:     counts[p.ID],
			Comments:         []CommentView{},
			CreatedAt:        p.CreatedAt,
		}
		for _, c := range previews[p.ID] {
			view.Comments = append(view.Comments, CommentView{
				ID:         c.ID.Hex(),
				Body:       c.Body,
				Media:      c.Media,
				AuthorID:   c.AuthorID.Hex(),
				AuthorName: userNames[c.AuthorID],
				CreatedAt:  c.CreatedAt,
			})
		}
		views = append(views, view)
	}
	return views
}

// CommentViews populates a slice of raw comments for listing endpoints.
func (a *Assembler) CommentViews(ctx context.Context, comments []models.Post) []CommentView {
	authorSet := map[primitive.ObjectID]struct{}{}
	for _, c := range comments {
		authorSet[c.AuthorID] = struct{}{}
	}
	names := a.userNames(ctx, keys(authorSet))

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			ID:         c.ID.Hex(),
			Body:       c.Body,
			Media:      c.Media,
			AuthorID:   c.AuthorID.Hex(),
			AuthorName: names[c.AuthorID],
			CreatedAt:  c.CreatedAt,
		})
	}
	return views
}

func (a *Assembler) userNames(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]string {
	names := map[primitive.ObjectID]string{}
	users, err := a.users.GetByIDs(ctx, ids)
	if err != nil {
		a.log.Warn("author population failed", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func (a *Assembler) orgNames(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]string {
	names := map[primitive.ObjectID]string{}
	orgs, err := a.orgs.GetByIDs(ctx, ids)
	if err != nil {
		a.log.Warn("organization population failed", zap.Error(err))
		return names
	}
	for _, o := range orgs {
		names[o.ID] = o.Name
	}
	return names
}

func (a *Assembler) communityNames(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]string {
	names := map[primitive.ObjectID]string{}
	coms, err := a.communities.GetByIDs(ctx, ids)
	if err != nil {
		a.log.Warn("community population failed", zap.Error(err))
		return names
	}
	for _, c := range coms {
		names[c.ID] = c.Name
	}
	return names
}

func keys(set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
