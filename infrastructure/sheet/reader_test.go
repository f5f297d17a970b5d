package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scheduled-uploader/domain/schedule"

	"golang.org/x/text/encoding/unicode"
)

const header = "video_file,title,description,scheduled_date,schedule_time\n"

func TestReader_Parse(t *testing.T) {
	input := header +
		"videos/intro.mp4,Intro,\"First, and best\",03/01/2025,09:05:00\n" +
		",,,,\n" +
		"\n" +
		"videos/second.mp4,Second,,2025-03-02,14:30:00\n"

	sheet, err := NewReader().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}

	first := sheet.Rows[0]
	if first.Line != 2 {
		t.Errorf("first row line = %d, want 2", first.Line)
	}
	if got := first.Get(schedule.ColumnDescription); got != "First, and best" {
		t.Errorf("description = %q, want %q", got, "First, and best")
	}
	if got := first.Get(schedule.ColumnScheduledDate); got != "03/01/2025" {
		t.Errorf("scheduled_date = %q, want leading zeros kept", got)
	}
	if got := first.Get(schedule.ColumnScheduleTime); got != "09:05:00" {
		t.Errorf("schedule_time = %q, want %q", got, "09:05:00")
	}

	second := sheet.Rows[1]
	if second.Line != 5 {
		t.Errorf("second row line = %d, want 5", second.Line)
	}
	if got := second.Get(schedule.ColumnTitle); got != "Second" {
		t.Errorf("title = %q, want %q", got, "Second")
	}
}

func TestReader_Parse_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + header + "a.mp4,A,,2025-03-01,10:00:00\n"

	sheet, err := NewReader().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sheet.Header[0] != schedule.ColumnVideoFile {
		t.Errorf("first header = %q, want %q", sheet.Header[0], schedule.ColumnVideoFile)
	}
	if got := sheet.Rows[0].Get(schedule.ColumnVideoFile); got != "a.mp4" {
		t.Errorf("video_file = %q, want %q", got, "a.mp4")
	}
	if missing := sheet.MissingColumns(); len(missing) != 0 {
		t.Errorf("unexpected missing columns: %v", missing)
	}
}

func TestReader_Parse_UTF16WithBOM(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := encoder.String(header + "a.mp4,Café,,2025-03-01,10:00:00\n")
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	sheet, err := NewReader().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sheet.Rows[0].Get(schedule.ColumnTitle); got != "Café" {
		t.Errorf("title = %q, want %q", got, "Café")
	}
}

func TestReader_Parse_HeaderHandling(t *testing.T) {
	input := " schedule_time , video_file ,extra, title\n" +
		"10:00:00,a.mp4,ignored\n"

	sheet, err := NewReader().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := sheet.Rows[0]
	if got := row.Get(schedule.ColumnVideoFile); got != "a.mp4" {
		t.Errorf("video_file = %q, want %q", got, "a.mp4")
	}
	if got := row.Get(schedule.ColumnScheduleTime); got != "10:00:00" {
		t.Errorf("schedule_time = %q, want %q", got, "10:00:00")
	}
	if got := row.Get(schedule.ColumnTitle); got != "" {
		t.Errorf("short row title = %q, want blank", got)
	}
	if got := row.Get(schedule.ColumnScheduledDate); got != "" {
		t.Errorf("absent column = %q, want blank", got)
	}

	missing := sheet.MissingColumns()
	if strings.Join(missing, ",") != "description,scheduled_date" {
		t.Errorf("missing columns = %v", missing)
	}
}

func TestReader_Parse_Empty(t *testing.T) {
	sheet, err := NewReader().Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(sheet.Rows))
	}
}

func TestReader_Parse_Semicolon(t *testing.T) {
	input := "video_file;title;description;scheduled_date;schedule_time\n" +
		"a.mp4;A, with comma;;2025-03-01;10:00:00\n"

	sheet, err := NewReader(WithComma(';')).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sheet.Rows[0].Get(schedule.ColumnTitle); got != "A, with comma" {
		t.Errorf("title = %q, want %q", got, "A, with comma")
	}
}

func TestReader_ReadRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "videos.csv")
	if err := os.WriteFile(path, []byte(header+"a.mp4,A,,2025-03-01,10:00:00\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	sheet, err := NewReader().ReadRows(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(sheet.Rows))
	}
}

func TestReader_ReadRows_NotFound(t *testing.T) {
	_, err := NewReader().ReadRows(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, schedule.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}
