// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video processing states.
const (
	VideoPending = "pending" // upload received, playback ID not yet resolved
	VideoReady   = "ready"
)

// Media holds the optional attachment on a post. At most one of the
// URL fields is set. Video references an external asset: UploadID is
// assigned by the video pipeline at upload time and PlaybackID is
// resolved from it before the post is stored (or later, if resolution
// was unavailable at create time).
type Media struct {
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	AudioURL string `bson:"audio_url,omitempty" json:"audio_url,omitempty"`

	VideoUploadID   string `bson:"video_upload_id,omitempty" json:"video_upload_id,omitempty"`
	VideoPlaybackID string `bson:"video_playback_id,omitempty" json:"video_playback_id,omitempty"`
	VideoStatus     string `bson:"video_status,omitempty" json:"video_status,omitempty"`
}

// Post is the central aggregate. A Post with ParentID set is a comment
// on the referenced top-level post; it copies the parent's organization
// and community at creation time and never diverges.
//
// Comments are discovered by querying (parent_id, created_at); there is
// no embedded comment array on the parent.
type Post struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	Body           string               `bson:"body" json:"body"`
	Media          Media                `bson:"media,omitempty" json:"media,omitempty"`
	AuthorID       primitive.ObjectID   `bson:"author_id" json:"author_id"`
	OrganizationID primitive.ObjectID   `bson:"organization_id" json:"organization_id"`
	CommunityID    primitive.ObjectID   `bson:"community_id" json:"community_id"`
	ParentID       *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	LikeIDs        []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"` // set semantics: each user at most once
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsComment reports whether the post is a comment on another post.
func (p Post) IsComment() bool { return p.ParentID != nil }
