package schedule

import (
	"strings"
	"time"
)

// Column names expected in the schedule header
const (
	ColumnVideoFile     = "video_file"
	ColumnTitle         = "title"
	ColumnDescription   = "description"
	ColumnScheduledDate = "scheduled_date"
	ColumnScheduleTime  = "schedule_time"
)

// Columns lists the required header columns in their documented order
var Columns = []string{
	ColumnVideoFile,
	ColumnTitle,
	ColumnDescription,
	ColumnScheduledDate,
	ColumnScheduleTime,
}

// DefaultTitle is used when a row has no title
const DefaultTitle = "Untitled Video"

// Row is one raw line of the schedule source
type Row struct {
	Line   int               // Line number in the source file
	Fields map[string]string // Cell text keyed by trimmed header name
}

// Get returns the trimmed value of a column, or "" when it is missing
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// IsBlank returns true if every cell of the row is empty after trimming
func (r Row) IsBlank() bool {
	for _, v := range r.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Entry is a validated schedule row ready for submission
type Entry struct {
	Line          int
	VideoFile     string
	Title         string
	Description   string
	ScheduledDate string
	ScheduleTime  string
	PublishAt     time.Time // Naive wall-clock instant, held as UTC
	Warnings      []string  // Non-fatal notes for the operator
}

// PublishAtISO returns the publish instant in the wire format expected by the platform
func (e *Entry) PublishAtISO() string {
	return FormatInstant(e.PublishAt)
}
