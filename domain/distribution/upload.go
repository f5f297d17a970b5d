package distribution

// UploadRequest contains the parameters needed to upload and schedule a video
type UploadRequest struct {
	LocalPath   string // Full path to the local video file
	Title       string // Video title
	Description string // Video description, may be empty
	Privacy     string // Privacy status until the publish instant
	PublishAt   string // ISO-8601 instant with a trailing Z
	MadeForKids bool   // Self-declared made-for-kids flag
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	VideoID   string // Platform video ID
	Title     string // Title as accepted by the platform
	PublishAt string // Scheduled public release instant
	Size      int64  // Size of the uploaded file in bytes
}

// PrivacyPrivate keeps a video hidden until its publish instant
const PrivacyPrivate = "private"
