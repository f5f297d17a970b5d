package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the schedule file does not exist
	ErrSourceNotFound = errors.New("schedule source not found")

	// ErrAuthentication is returned when no session could be obtained
	ErrAuthentication = errors.New("authentication failed")
)

// Skip reasons reported for rows that are not submitted
const (
	ReasonMissingVideoFile = "missing video file"
	ReasonMissingSchedule  = "missing scheduled date or time"
	ReasonDateTimeParse    = "datetime parse failure"
	ReasonFileNotFound     = "file not found"
)

// DateTimeParseError is returned when a date/time pair matches none of the
// accepted layouts
type DateTimeParseError struct {
	Input string
}

func (e *DateTimeParseError) Error() string {
	return fmt.Sprintf("unrecognized date/time %q: expected YYYY-MM-DD, MM/DD/YYYY or MM-DD-YY followed by HH:MM:SS", e.Input)
}

// SkipError marks a row that was excluded from the batch. It never aborts a run.
type SkipError struct {
	Reason string
	Err    error
}

func (e *SkipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// IsSkip reports whether err marks a skipped row
func IsSkip(err error) bool {
	var skip *SkipError
	return errors.As(err, &skip)
}
