package distribution

import (
	"context"
)

// VideoClient defines the interface for video hosting operations
// This is a port that can be implemented by different infrastructure adapters
type VideoClient interface {
	// Upload sends the local file with its metadata in a single attempt
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// Authenticator obtains an authenticated session for the hosting platform.
// The returned client is the session handle and is shared read-only for a run.
type Authenticator interface {
	Authenticate(ctx context.Context) (VideoClient, error)
}
