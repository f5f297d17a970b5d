package schedule

import (
	"fmt"
	"time"
)

// FileChecker defines the interface for checking file existence
// This is a port that can be implemented by different infrastructure adapters
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// Validator turns raw rows into entries or skip decisions
type Validator struct {
	files FileChecker
	now   func() time.Time
}

// ValidatorOption is a functional option for configuring Validator
type ValidatorOption func(*Validator)

// WithClock sets the clock used to flag publish instants in the past
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a validator that checks video files with files
func NewValidator(files FileChecker, opts ...ValidatorOption) *Validator {
	v := &Validator{
		files: files,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate applies the row rules in order. Row problems are returned as *SkipError.
func (v *Validator) Validate(row Row) (*Entry, error) {
	entry := &Entry{
		Line:          row.Line,
		VideoFile:     row.Get(ColumnVideoFile),
		Title:         row.Get(ColumnTitle),
		Description:   row.Get(ColumnDescription),
		ScheduledDate: row.Get(ColumnScheduledDate),
		ScheduleTime:  row.Get(ColumnScheduleTime),
	}

	if entry.VideoFile == "" {
		return nil, &SkipError{Reason: ReasonMissingVideoFile}
	}

	if entry.Title == "" {
		entry.Title = DefaultTitle
	}

	if entry.ScheduledDate == "" || entry.ScheduleTime == "" {
		return nil, &SkipError{Reason: ReasonMissingSchedule}
	}

	publishAt, err := NormalizeDateTime(entry.ScheduledDate, entry.ScheduleTime)
	if err != nil {
		return nil, &SkipError{Reason: ReasonDateTimeParse, Err: err}
	}
	entry.PublishAt = publishAt

	if !v.files.Exists(entry.VideoFile) {
		return nil, &SkipError{
			Reason: ReasonFileNotFound,
			Err:    fmt.Errorf("video file %q does not exist", entry.VideoFile),
		}
	}

	// Compare wall clocks: the sheet value is naive, so read now the same way.
	now := v.now()
	nowWall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	if publishAt.Before(nowWall) {
		entry.Warnings = append(entry.Warnings, fmt.Sprintf("scheduled time %s is in the past", entry.PublishAtISO()))
	}

	return entry, nil
}
