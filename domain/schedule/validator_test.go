package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// mockFileChecker implements FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

func newRow(line int, videoFile, title, description, date, clock string) Row {
	return Row{
		Line: line,
		Fields: map[string]string{
			ColumnVideoFile:     videoFile,
			ColumnTitle:         title,
			ColumnDescription:   description,
			ColumnScheduledDate: date,
			ColumnScheduleTime:  clock,
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestValidator_Validate(t *testing.T) {
	files := &mockFileChecker{existingFiles: map[string]bool{
		"videos/intro.mp4": true,
	}}

	tests := []struct {
		name       string
		row        Row
		wantReason string
		wantTitle  string
		wantISO    string
	}{
		{
			name:      "complete row",
			row:       newRow(2, "videos/intro.mp4", "Intro", "First video", "2025-03-01", "14:30:00"),
			wantTitle: "Intro",
			wantISO:   "2025-03-01T14:30:00Z",
		},
		{
			name:      "fields are trimmed",
			row:       newRow(2, "  videos/intro.mp4 ", " Intro ", " First ", " 03/01/2025 ", " 14:30:00 "),
			wantTitle: "Intro",
			wantISO:   "2025-03-01T14:30:00Z",
		},
		{
			name:      "empty title gets placeholder",
			row:       newRow(2, "videos/intro.mp4", "", "", "2025-03-01", "14:30:00"),
			wantTitle: DefaultTitle,
			wantISO:   "2025-03-01T14:30:00Z",
		},
		{
			name:       "missing video file",
			row:        newRow(3, "", "Intro", "", "2025-03-01", "14:30:00"),
			wantReason: ReasonMissingVideoFile,
		},
		{
			name:       "blank video file with everything else invalid",
			row:        newRow(3, "   ", "", "", "garbage", ""),
			wantReason: ReasonMissingVideoFile,
		},
		{
			name:       "missing scheduled date",
			row:        newRow(4, "videos/intro.mp4", "Intro", "", "", "14:30:00"),
			wantReason: ReasonMissingSchedule,
		},
		{
			name:       "missing schedule time",
			row:        newRow(4, "videos/intro.mp4", "Intro", "", "2025-03-01", " "),
			wantReason: ReasonMissingSchedule,
		},
		{
			name:       "unparseable datetime",
			row:        newRow(5, "videos/intro.mp4", "Intro", "", "1st March", "2pm"),
			wantReason: ReasonDateTimeParse,
		},
		{
			name:       "video file does not exist",
			row:        newRow(6, "videos/missing.mp4", "Intro", "", "2025-03-01", "14:30:00"),
			wantReason: ReasonFileNotFound,
		},
		{
			name:       "parse failure is reported before missing file",
			row:        newRow(7, "videos/missing.mp4", "Intro", "", "not a date", "14:30:00"),
			wantReason: ReasonDateTimeParse,
		},
	}

	v := NewValidator(files, WithClock(fixedClock))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := v.Validate(tt.row)

			if tt.wantReason != "" {
				var skip *SkipError
				if !errors.As(err, &skip) {
					t.Fatalf("expected *SkipError, got %v", err)
				}
				if skip.Reason != tt.wantReason {
					t.Errorf("skip reason = %q, want %q", skip.Reason, tt.wantReason)
				}
				if entry != nil {
					t.Errorf("expected nil entry for skipped row, got %+v", entry)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", entry.Title, tt.wantTitle)
			}
			if got := entry.PublishAtISO(); got != tt.wantISO {
				t.Errorf("publish at = %q, want %q", got, tt.wantISO)
			}
			if entry.Line != tt.row.Line {
				t.Errorf("line = %d, want %d", entry.Line, tt.row.Line)
			}
			if len(entry.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", entry.Warnings)
			}
		})
	}
}

func TestValidator_ParseFailureWrapsDateTimeParseError(t *testing.T) {
	v := NewValidator(&mockFileChecker{}, WithClock(fixedClock))

	_, err := v.Validate(newRow(2, "a.mp4", "A", "", "tomorrow", "noon"))

	var parseErr *DateTimeParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *DateTimeParseError in chain, got %v", err)
	}
	if parseErr.Input != "tomorrow noon" {
		t.Errorf("parse error input = %q, want %q", parseErr.Input, "tomorrow noon")
	}
	if !IsSkip(err) {
		t.Error("expected parse failure to be a skip")
	}
}

func TestValidator_PastScheduleWarns(t *testing.T) {
	files := &mockFileChecker{existingFiles: map[string]bool{"a.mp4": true}}
	v := NewValidator(files, WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}))

	entry, err := v.Validate(newRow(2, "a.mp4", "A", "", "2025-03-01", "14:30:00"))
	if err != nil {
		t.Fatalf("past schedule must not skip, got %v", err)
	}
	if len(entry.Warnings) != 1 || !strings.Contains(entry.Warnings[0], "in the past") {
		t.Errorf("expected a past-schedule warning, got %v", entry.Warnings)
	}
}

func TestRow_IsBlank(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{"no fields", Row{}, true},
		{"whitespace only", newRow(2, " ", "", "\t", "", ""), true},
		{"one value", newRow(2, "", "", "note", "", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.IsBlank(); got != tt.want {
				t.Errorf("IsBlank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSheet_MissingColumns(t *testing.T) {
	sheet := &Sheet{Header: []string{"video_file", " title ", "extra", "scheduled_date"}}

	got := sheet.MissingColumns()
	want := []string{ColumnDescription, ColumnScheduleTime}

	if len(got) != len(want) {
		t.Fatalf("MissingColumns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MissingColumns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
