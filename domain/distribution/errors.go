package distribution

import "fmt"

// UploadError wraps a transport or API failure for one video
type UploadError struct {
	Title string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Title, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
