// internal/app/media/video.go

// Package media resolves video upload references to playable assets.
package media

import (
	"context"
	"errors"
	"fmt"

	muxgo "github.com/muxinc/mux-go"
)

// ErrVideoProcessing means the asset exists but has no playback ID yet.
// Callers store the post with a pending video status and resolve later.
var ErrVideoProcessing = errors.New("video still processing")

// PlaybackResolver turns a video upload ID into a playback ID.
type PlaybackResolver interface {
	Resolve(ctx context.Context, uploadID string) (string, error)
}

// MuxResolver resolves playback IDs through the Mux Video API.
type MuxResolver struct {
	client *muxgo.APIClient
}

func NewMuxResolver(tokenID, tokenSecret string) *MuxResolver {
	return &MuxResolver{
		client: muxgo.NewAPIClient(muxgo.NewConfiguration(
			muxgo.WithBasicAuth(tokenID, tokenSecret),
		)),
	}
}

// Resolve follows upload -> asset -> playback ID. ErrVideoProcessing is
// returned while the pipeline has not produced a playback ID.
func (r *MuxResolver) Resolve(ctx context.Context, uploadID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upload, err := r.client.DirectUploadsApi.GetDirectUpload(uploadID)
	if err != nil {
		return "", fmt.Errorf("get upload %s: %w", uploadID, err)
	}
	if upload.Data.AssetId == "" {
		return "", ErrVideoProcessing
	}
	asset, err := r.client.AssetsApi.GetAsset(upload.Data.AssetId)
	if err != nil {
		return "", fmt.Errorf("get asset %s: %w", upload.Data.AssetId, err)
	}
	if len(asset.Data.PlaybackIds) == 0 {
		return "", ErrVideoProcessing
	}
	return asset.Data.PlaybackIds[0].Id, nil
}
