package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"scheduled-uploader/domain/distribution"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// uploadChunkSize is the resumable upload chunk size; it must be a multiple of googleapi.MinUploadChunkSize
const uploadChunkSize = 8 * 1024 * 1024

// VideosService defines the interface for YouTube Data API video operations
// This allows mocking the YouTube API in tests
type VideosService interface {
	Insert(ctx context.Context, video *youtube.Video, media io.Reader) (*youtube.Video, error)
}

// GoogleVideosService is the production implementation using the YouTube Data API
type GoogleVideosService struct {
	service *youtube.Service
}

// Insert uploads media as a resumable upload with the snippet and status parts
func (s *GoogleVideosService) Insert(ctx context.Context, video *youtube.Video, media io.Reader) (*youtube.Video, error) {
	return s.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(media, googleapi.ChunkSize(uploadChunkSize)).
		Context(ctx).
		Do()
}

// Client implements distribution.VideoClient using the YouTube Data API
type Client struct {
	videosService VideosService
}

// NewClient creates a new YouTube client backed by svc
func NewClient(svc VideosService) *Client {
	return &Client{videosService: svc}
}

// Upload implements distribution.VideoClient. The local file is opened
// read-only and closed on every return path.
func (c *Client) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	f, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open video file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat video file: %w", err)
	}

	uploaded, err := c.videosService.Insert(ctx, buildVideo(req), f)
	if err != nil {
		return nil, describeAPIError(err)
	}

	result := &distribution.UploadResult{
		VideoID:   uploaded.Id,
		Title:     req.Title,
		PublishAt: req.PublishAt,
		Size:      info.Size(),
	}
	if uploaded.Snippet != nil && uploaded.Snippet.Title != "" {
		result.Title = uploaded.Snippet.Title
	}
	if uploaded.Status != nil && uploaded.Status.PublishAt != "" {
		result.PublishAt = uploaded.Status.PublishAt
	}
	return result, nil
}

// buildVideo creates the metadata resource sent with the media body
func buildVideo(req distribution.UploadRequest) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:           req.Title,
			Description:     req.Description,
			ForceSendFields: []string{"Description"},
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           req.Privacy,
			PublishAt:               req.PublishAt,
			SelfDeclaredMadeForKids: req.MadeForKids,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
}

// describeAPIError adds the status code and first reason of a googleapi error
func describeAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	reason := "unknown"
	if len(apiErr.Errors) > 0 && apiErr.Errors[0].Reason != "" {
		reason = apiErr.Errors[0].Reason
	}
	return fmt.Errorf("failed to insert video (HTTP %d, %s): %w", apiErr.Code, reason, err)
}

// Ensure Client implements distribution.VideoClient
var _ distribution.VideoClient = (*Client)(nil)
