// internal/app/posts/service.go

// Package posts implements the content write path: creating top-level
// posts and toggling likes.
package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/parishhub/internal/app/media"
	"github.com/dalemusser/parishhub/internal/app/policy/postpolicy"
	communitystore "github.com/dalemusser/parishhub/internal/app/store/communities"
	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier receives the post-created hook. Enqueue failures are logged
// and swallowed.
type Notifier interface {
	OnPostCreated(ctx context.Context, post models.Post) error
}

// Input is a new-post request. At most one media attachment is honored;
// VideoUploadID references an upload already accepted by the video
// pipeline.
type Input struct {
	CommunityID   primitive.ObjectID
	Body          string
	ImageURL      string
	AudioURL      string
	VideoUploadID string
}

// Service handles post creation and likes.
type Service struct {
	posts       *poststore.Store
	communities *communitystore.Store
	policy      *postpolicy.Policy
	resolver    media.PlaybackResolver // nil disables playback resolution
	notifier    Notifier
	log         *zap.Logger
}

func New(db *mongo.Database, resolver media.PlaybackResolver, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		posts:       poststore.New(db),
		communities: communitystore.New(db),
		policy:      postpolicy.New(db),
		resolver:    resolver,
		notifier:    notifier,
		log:         logger,
	}
}

// Create validates, sanitizes, and stores a new top-level post in the
// community, then enqueues its notification intent.
func (s *Service) Create(ctx context.Context, authorID primitive.ObjectID, in Input) (models.Post, error) {
	body := strings.TrimSpace(htmlsanitize.Sanitize(in.Body))
	hasMedia := in.ImageURL != "" || in.AudioURL != "" || in.VideoUploadID != ""
	if body == "" && !hasMedia {
		return models.Post{}, fmt.Errorf("post has no body or media: %w", apperr.ErrInvalidQuery)
	}

	com, err := s.communities.GetByID(ctx, in.CommunityID)
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}

	ok, err := s.policy.CanPost(ctx, com.ID, com.OrganizationID, authorID)
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}
	if !ok {
		return models.Post{}, fmt.Errorf("user %s is not a member: %w", authorID.Hex(), apperr.ErrUnauthorized)
	}

	post, err := s.posts.Create(ctx, models.Post{
		Body:           body,
		Media:          s.buildMedia(ctx, in),
		AuthorID:       authorID,
		OrganizationID: com.OrganizationID,
		CommunityID:    com.ID,
	})
	if err != nil {
		return models.Post{}, apperr.FromStore(err)
	}

	if err := s.notifier.OnPostCreated(ctx, post); err != nil {
		s.log.Warn("post notification enqueue failed",
			zap.String("post_id", post.ID.Hex()),
			zap.Error(err))
	}
	return post, nil
}

// buildMedia maps the input attachment. A video upload whose playback
// ID cannot be resolved yet is stored pending; the post still publishes.
func (s *Service) buildMedia(ctx context.Context, in Input) models.Media {
	m := models.Media{
		ImageURL: in.ImageURL,
		AudioURL: in.AudioURL,
	}
	if in.VideoUploadID == "" {
		return m
	}
	m.VideoUploadID = in.VideoUploadID
	m.VideoStatus = models.VideoPending
	if s.resolver == nil {
		return m
	}
	playbackID, err := s.resolver.Resolve(ctx, in.VideoUploadID)
	if err != nil {
		if !errors.Is(err, media.ErrVideoProcessing) {
			s.log.Warn("playback resolution failed",
				zap.String("upload_id", in.VideoUploadID),
				zap.Error(err))
		}
		return m
	}
	m.VideoPlaybackID = playbackID
	m.VideoStatus = models.VideoReady
	return m
}

// ToggleLike flips the caller's like on a post and returns the new
// state and like count.
func (s *Service) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (liked bool, likeCount int, err error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, 0, apperr.FromStore(err)
	}

	ok, err := s.policy.CanLike(ctx, post.CommunityID, post.OrganizationID, userID)
	if err != nil {
		return false, 0, apperr.FromStore(err)
	}
	if !ok {
		return false, 0, fmt.Errorf("user %s is not a member: %w", userID.Hex(), apperr.ErrUnauthorized)
	}

	liked, err = s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, 0, apperr.FromStore(err)
	}

	likeCount = len(post.LikeIDs)
	had := false
	for _, id := range post.LikeIDs {
		if id == userID {
			had = true
			break
		}
	}
	switch {
	case liked && !had:
		likeCount++
	case !liked && had:
		likeCount--
	}
	return liked, likeCount, nil
}
