// internal/app/notify/fanout.go

// Package notify implements SMS fan-out for new posts and comments.
//
// Content creation never sends directly: the write path appends an
// intent to the outbox and returns, and a background worker claims
// intents and performs the per-recipient sends. A send failure affects
// only that recipient; the batch continues and the intent settles with
// a delivery summary.
package notify

import (
	"context"
	"fmt"

	communitystore "github.com/dalemusser/parishhub/internal/app/store/communities"
	intentstore "github.com/dalemusser/parishhub/internal/app/store/intents"
	poststore "github.com/dalemusser/parishhub/internal/app/store/posts"
	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxBodyRunes caps the content excerpt inside a notification message.
const maxBodyRunes = 120

// Engine enqueues notification intents on content creation and
// dispatches claimed intents to recipients.
type Engine struct {
	intents     *intentstore.Store
	users       *userstore.Store
	communities *communitystore.Store
	posts       *poststore.Store
	gateway     Gateway
	enabled     bool
	log         *zap.Logger
}

// NewEngine wires the engine over the database and SMS gateway. When
// enabled is false the enqueue hooks become no-ops, which keeps
// development environments from texting real members.
func NewEngine(db *mongo.Database, gateway Gateway, enabled bool, logger *zap.Logger) *Engine {
	return &Engine{
		intents:     intentstore.New(db),
		users:       userstore.New(db),
		communities: communitystore.New(db),
		posts:       poststore.New(db),
		gateway:     gateway,
		enabled:     enabled,
		log:         logger,
	}
}

// OnPostCreated enqueues a fan-out intent for a new top-level post.
func (e *Engine) OnPostCreated(ctx context.Context, post models.Post) error {
	return e.enqueue(ctx, models.IntentKindPost, post, "posted in")
}

// OnCommentCreated enqueues a fan-out intent for a new comment.
func (e *Engine) OnCommentCreated(ctx context.Context, comment models.Post) error {
	return e.enqueue(ctx, models.IntentKindComment, comment, "commented in")
}

func (e *Engine) enqueue(ctx context.Context, kind string, post models.Post, verb string) error {
	if !e.enabled {
		e.log.Debug("notifications disabled, intent skipped",
			zap.String("kind", kind), zap.String("post_id", post.ID.Hex()))
		return nil
	}
	intent := models.NotificationIntent{
		Kind:        kind,
		PostID:      post.ID,
		CommunityID: post.CommunityID,
		ActorID:     post.AuthorID,
		Body:        e.composeBody(ctx, post, verb),
	}
	created, err := e.intents.Append(ctx, intent)
	if err != nil {
		return fmt.Errorf("enqueue %s intent: %w", kind, err)
	}
	e.log.Info("notification intent enqueued",
		zap.String("kind", kind),
		zap.String("intent_key", created.Key),
		zap.String("post_id", post.ID.Hex()))
	return nil
}

// composeBody builds the message text. Name lookups are best-effort;
// a missing author or community falls back to a generic phrasing.
func (e *Engine) composeBody(ctx context.Context, post models.Post, verb string) string {
	author := "Someone"
	if u, err := e.users.GetByID(ctx, post.AuthorID); err == nil {
		author = u.FullName
	}
	where := "your community"
	if c, err := e.communities.GetByID(ctx, post.CommunityID); err == nil {
		where = c.Name
	}
	return fmt.Sprintf("%s %s %s: %s", author, verb, where, truncate(post.Body, maxBodyRunes))
}

// Dispatch resolves the recipient set for a claimed intent and sends to
// each recipient with a phone number. The actor never receives their
// own notification; for comments the parent post's author is included
// even when they are not a community member.
func (e *Engine) Dispatch(ctx context.Context, intent models.NotificationIntent) (Summary, error) {
	recipientIDs, err := e.resolveRecipients(ctx, intent)
	if err != nil {
		return Summary{}, err
	}
	if len(recipientIDs) == 0 {
		return Summary{}, nil
	}

	recipients, err := e.users.GetByIDs(ctx, recipientIDs)
	if err != nil {
		return Summary{}, fmt.Errorf("load recipients: %w", err)
	}

	var sum Summary
	for _, u := range recipients {
		if u.Phone == "" {
			continue
		}
		sum.Attempted++
		sendCtx, cancel := context.WithTimeout(ctx, timeouts.Gateway())
		err := e.gateway.Send(sendCtx, u.Phone, intent.Body)
		cancel()
		if err != nil {
			sum.Failed++
			e.log.Warn("notification send failed",
				zap.String("intent_key", intent.Key),
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
			continue
		}
		sum.Sent++
	}
	e.log.Info("notification intent dispatched",
		zap.String("intent_key", intent.Key),
		zap.Int("attempted", sum.Attempted),
		zap.Int("sent", sum.Sent),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

func (e *Engine) resolveRecipients(ctx context.Context, intent models.NotificationIntent) ([]primitive.ObjectID, error) {
	com, err := e.communities.GetByID(ctx, intent.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("load community %s: %w", intent.CommunityID.Hex(), err)
	}

	set := map[primitive.ObjectID]struct{}{}
	for _, id := range com.MemberIDs {
		set[id] = struct{}{}
	}

	if intent.Kind == models.IntentKindComment {
		comment, err := e.posts.GetByID(ctx, intent.PostID)
		if err != nil {
			return nil, fmt.Errorf("load comment %s: %w", intent.PostID.Hex(), err)
		}
		if comment.ParentID != nil {
			parent, err := e.posts.GetByID(ctx, *comment.ParentID)
			if err != nil {
				return nil, fmt.Errorf("load parent %s: %w", comment.ParentID.Hex(), err)
			}
			set[parent.AuthorID] = struct{}{}
		}
	}

	delete(set, intent.ActorID)

	ids := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
