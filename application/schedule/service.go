package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	appdist "scheduled-uploader/application/distribution"
	"scheduled-uploader/domain/distribution"
	"scheduled-uploader/domain/schedule"
)

// DefaultDelay is the pause after each upload attempt
const DefaultDelay = 5 * time.Second

// previewRows is the number of rows echoed after loading
const previewRows = 5

// RowReader parses a schedule source into rows
type RowReader interface {
	ReadRows(path string) (*schedule.Sheet, error)
}

// Pauser blocks for d or until ctx is done
type Pauser func(ctx context.Context, d time.Duration)

// Options control a single batch run
type Options struct {
	SourcePath string        // Path to the schedule CSV
	Delay      time.Duration // Pause after each upload attempt
	DryRun     bool          // Validate only; no authentication or uploads
}

// Service runs the schedule batch: load, authenticate, then validate and
// submit each row in source order
type Service struct {
	files     schedule.FileChecker
	reader    RowReader
	auth      distribution.Authenticator
	validator *schedule.Validator
	uploader  *appdist.UploadService
	pause     Pauser
	output    io.Writer
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithPauser replaces the inter-row pause (for testing)
func WithPauser(p Pauser) ServiceOption {
	return func(s *Service) {
		s.pause = p
	}
}

// NewService creates a new batch service
func NewService(
	files schedule.FileChecker,
	reader RowReader,
	auth distribution.Authenticator,
	validator *schedule.Validator,
	uploader *appdist.UploadService,
	output io.Writer,
	opts ...ServiceOption,
) *Service {
	if output == nil {
		output = io.Discard
	}
	s := &Service{
		files:     files,
		reader:    reader,
		auth:      auth,
		validator: validator,
		uploader:  uploader,
		pause:     sleep,
		output:    output,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes the whole schedule. Only a missing source, a load failure or an
// authentication failure return an error; row problems are reported and the
// run continues. Cancelling ctx ends the run in StateAborted with a nil error.
func (s *Service) Run(ctx context.Context, opts Options) (*schedule.Report, error) {
	report := &schedule.Report{State: schedule.StateInit}

	if !s.files.Exists(opts.SourcePath) {
		return report, fmt.Errorf("%w: %s", schedule.ErrSourceNotFound, opts.SourcePath)
	}

	report.State = schedule.StateLoading
	sheet, err := s.reader.ReadRows(opts.SourcePath)
	if err != nil {
		return report, fmt.Errorf("failed to load schedule: %w", err)
	}
	fmt.Fprintf(s.output, "Loaded %d rows from %s\n", len(sheet.Rows), opts.SourcePath)
	for _, col := range sheet.MissingColumns() {
		fmt.Fprintf(s.output, "Warning: column %q not found in header; treating it as blank\n", col)
	}
	s.printPreview(sheet)

	var session distribution.VideoClient
	if !opts.DryRun {
		report.State = schedule.StateAuthenticating
		session, err = s.auth.Authenticate(ctx)
		if err != nil {
			return report, fmt.Errorf("%w: %w", schedule.ErrAuthentication, err)
		}
	}

	report.State = schedule.StateIterating
	for i, row := range sheet.Rows {
		if ctx.Err() != nil {
			return s.abort(report, opts.DryRun, fmt.Sprintf("Stopped by user before row %d.", row.Line)), nil
		}

		outcome := s.processRow(ctx, session, row, opts.DryRun)
		report.Outcomes = append(report.Outcomes, outcome)

		if ctx.Err() != nil {
			if i < len(sheet.Rows)-1 {
				return s.abort(report, opts.DryRun, fmt.Sprintf("Stopped by user before row %d.", sheet.Rows[i+1].Line)), nil
			}
			return s.abort(report, opts.DryRun, fmt.Sprintf("Stopped by user after row %d.", row.Line)), nil
		}

		attempted := outcome.Status == schedule.StatusSucceeded || outcome.Status == schedule.StatusFailed
		if attempted && i < len(sheet.Rows)-1 {
			s.pause(ctx, opts.Delay)
		}
	}

	report.State = schedule.StateDone
	s.printSummary(report, opts.DryRun)
	return report, nil
}

// abort ends the run in StateAborted, keeping the outcomes so far
func (s *Service) abort(report *schedule.Report, dryRun bool, msg string) *schedule.Report {
	report.State = schedule.StateAborted
	fmt.Fprintln(s.output, msg)
	s.printSummary(report, dryRun)
	return report
}

// processRow validates and, unless dryRun, submits a single row
func (s *Service) processRow(ctx context.Context, session distribution.VideoClient, row schedule.Row, dryRun bool) schedule.Outcome {
	title := row.Get(schedule.ColumnTitle)
	if title == "" {
		title = schedule.DefaultTitle
	}

	entry, err := s.validator.Validate(row)
	if err != nil {
		outcome := schedule.Outcome{Line: row.Line, Title: title, Status: schedule.StatusSkipped, Err: err}
		var skip *schedule.SkipError
		if errors.As(err, &skip) {
			outcome.Reason = skip.Reason
		}
		fmt.Fprintf(s.output, "Skipping row %d (%q): %v\n", row.Line, title, err)
		return outcome
	}

	for _, w := range entry.Warnings {
		fmt.Fprintf(s.output, "Warning: row %d (%q): %s\n", entry.Line, entry.Title, w)
	}

	if dryRun {
		fmt.Fprintf(s.output, "Would upload %q from %s, scheduled for %s\n", entry.Title, entry.VideoFile, entry.PublishAtISO())
		return schedule.Outcome{Line: entry.Line, Title: entry.Title, Status: schedule.StatusPlanned}
	}

	fmt.Fprintf(s.output, "Uploading %q from %s...\n", entry.Title, entry.VideoFile)

	// An upload already in flight is allowed to finish after cancellation.
	result, err := s.uploader.Submit(context.WithoutCancel(ctx), session, entry)
	if err != nil {
		fmt.Fprintf(s.output, "Error: %v\n", err)
		return schedule.Outcome{Line: entry.Line, Title: entry.Title, Status: schedule.StatusFailed, Err: err}
	}

	fmt.Fprintf(s.output, "Video %q uploaded and scheduled for %s (ID: %s, %.2f MB)\n",
		entry.Title, result.PublishAt, result.VideoID, float64(result.Size)/1024/1024)
	return schedule.Outcome{Line: entry.Line, Title: entry.Title, Status: schedule.StatusSucceeded, VideoID: result.VideoID}
}

// printPreview echoes the first rows so the operator can check the columns
func (s *Service) printPreview(sheet *schedule.Sheet) {
	if len(sheet.Rows) == 0 {
		return
	}

	n := min(previewRows, len(sheet.Rows))
	fmt.Fprintf(s.output, "Schedule preview (first %d rows):\n", n)

	w := tabwriter.NewWriter(s.output, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  line\t%s\n", strings.Join(schedule.Columns, "\t"))
	for _, row := range sheet.Rows[:n] {
		cells := make([]string, len(schedule.Columns))
		for i, col := range schedule.Columns {
			cells[i] = row.Get(col)
		}
		fmt.Fprintf(w, "  %d\t%s\n", row.Line, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintln(s.output)
}

func (s *Service) printSummary(report *schedule.Report, dryRun bool) {
	fmt.Fprintln(s.output)
	if dryRun {
		fmt.Fprintf(s.output, "Dry run %s: %d ready, %d skipped\n",
			report.State,
			report.Count(schedule.StatusPlanned),
			report.Count(schedule.StatusSkipped),
		)
		return
	}
	fmt.Fprintf(s.output, "Batch %s: %d uploaded, %d skipped, %d failed\n",
		report.State,
		report.Count(schedule.StatusSucceeded),
		report.Count(schedule.StatusSkipped),
		report.Count(schedule.StatusFailed),
	)
}

// sleep is the production Pauser
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
