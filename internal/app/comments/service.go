// internal/app/comments/service.go

// Package comments implements commenting on top-level posts. A comment
// is a post row with parent_id set; the service enforces the single
// nesting level and community membership.
package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/parishhub/internal/app/feed"
	"github.com/dalemusser/parishhub/internal/app/policy/postpolicy"
	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/paging"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier receives the comment-created hook. Enqueue failures are
// logged and swallowed; a notification must never fail the write.
type Notifier interface {
	OnCommentCreated(ctx context.Context, comment models.Post) error
}

// Attachment is optional media on a comment. Comments carry image or
// audio attachments only; video uploads are restricted to top-level
// posts.
type Attachment struct {
	ImageURL string
	AudioURL string
}

func (a Attachment) empty() bool { return a.ImageURL == "" && a.AudioURL == "" }

// Listing is one page of comments with listing totals.
type Listing struct {
	Comments   []feed.CommentView `json:"comments"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}

// Service adds and lists comments.
type Service struct {
	posts     *poststore.Store
	policy    *postpolicy.Policy
	assembler *feed.Assembler
	notifier  Notifier
	log       *zap.Logger
}

func New(db *mongo.Database, assembler *feed.Assembler, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		posts:     poststore.New(db),
		policy:    postpolicy.New(db),
		assembler: assembler,
		notifier:  notifier,
		log:       logger,
	}
}

// Add creates a comment under a top-level post. The body is sanitized;
// the comment inherits the parent's organization and community scope.
// A comment needs a non-empty body or an attachment.
func (s *Service) Add(ctx context.Context, parentID, authorID primitive.ObjectID, body string, attach Attachment) (models.Post, error) {
	body = strings.TrimSpace(htmlsanitize.Sanitize(body))
	if body == "" && attach.empty() {
		return models.Post{}, fmt.Errorf("comment body is empty: %w", apperr.ErrInvalidQuery)
	}

	parent, err := s.posts.GetByID(ctx, parentID)
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}
	if parent.IsComment() {
		return models.Post{}, fmt.Errorf("cannot comment on a comment: %w", apperr.ErrInvalidQuery)
	}

	ok, err := s.policy.CanComment(ctx, parent.CommunityID, parent.OrganizationID, authorID)
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}
	if !ok {
		return models.Post{}, fmt.Errorf("user %s is not a member: %w", authorID.Hex(), apperr.ErrUnauthorized)
	}

	pid := parent.ID
	comment, err := s.posts.Create(ctx, models.Post{
		Body:           body,
		Media:          models.Media{ImageURL: attach.ImageURL, AudioURL: attach.AudioURL},
		AuthorID:       authorID,
		OrganizationID: parent.OrganizationID,
		CommunityID:    parent.CommunityID,
		ParentID:       &pid,
	})
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}

	if err := s.notifier.OnCommentCreated(ctx, comment); err != nil {
		s.log.Warn("comment notification enqueue failed",
			zap.String("comment_id", comment.ID.Hex()),
			zap.Error(err))
	}
	return comment, nil
}

// List returns one page of a post's comments, newest-first, with the
// total count and page count for the listing UI.
func (s *Service) List(ctx context.Context, parentID primitive.ObjectID, page paging.CommentPage) (Listing, error) {
	parent, err := s.posts.GetByID(ctx, parentID)
	if err != nil {
		return Listing{}, apperr.FromStore(err)
	}
	if parent.IsComment() {
		return Listing{}, fmt.Errorf("post %s is a comment: %w", parentID.Hex(), apperr.ErrNotFound)
	}

	rows, err := s.posts.ListComments(ctx, parentID, page)
	if err != nil {
		return Listing{}, apperr.FromStore(err)
	}
	total, err := s.posts.CountComments(ctx, parentID)
	if err != nil {
		return Listing{}, apperr.FromStore(err)
	}

	return Listing{
		Comments:   s.assembler.CommentViews(ctx, rows),
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(total),
	}, nil
}
