package distribution

import (
	"context"

	"scheduled-uploader/domain/distribution"
	"scheduled-uploader/domain/schedule"
)

// UploadService submits validated schedule entries to the hosting platform
type UploadService struct {
	privacy     string
	madeForKids bool
}

// NewUploadService creates a new upload service.
// Videos stay private until their scheduled time and are not marked made for kids.
func NewUploadService() *UploadService {
	return &UploadService{
		privacy:     distribution.PrivacyPrivate,
		madeForKids: false,
	}
}

// BuildRequest creates the upload request for an entry
func (s *UploadService) BuildRequest(entry *schedule.Entry) distribution.UploadRequest {
	return distribution.UploadRequest{
		LocalPath:   entry.VideoFile,
		Title:       entry.Title,
		Description: entry.Description,
		Privacy:     s.privacy,
		PublishAt:   entry.PublishAtISO(),
		MadeForKids: s.madeForKids,
	}
}

// Submit makes exactly one upload attempt for entry using the given session.
// Failures are returned as *distribution.UploadError.
func (s *UploadService) Submit(ctx context.Context, session distribution.VideoClient, entry *schedule.Entry) (*distribution.UploadResult, error) {
	req := s.BuildRequest(entry)

	result, err := session.Upload(ctx, req)
	if err != nil {
		return nil, &distribution.UploadError{Title: entry.Title, Err: err}
	}

	return result, nil
}
