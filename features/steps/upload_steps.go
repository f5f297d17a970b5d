//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appschedule "scheduled-uploader/application/schedule"
	"scheduled-uploader/cmd"
	"scheduled-uploader/domain/distribution"
	"scheduled-uploader/domain/schedule"
	"scheduled-uploader/infrastructure/filesystem"
	"scheduled-uploader/infrastructure/sheet"

	"github.com/cucumber/godog"
)

// stubVideoClient records uploads instead of calling YouTube
type stubVideoClient struct {
	requests   []distribution.UploadRequest
	failTitles map[string]bool
	onUpload   func(req distribution.UploadRequest)
	nextID     int
}

func (c *stubVideoClient) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	c.requests = append(c.requests, req)
	if c.onUpload != nil {
		c.onUpload(req)
	}
	if c.failTitles[req.Title] {
		return nil, fmt.Errorf("googleapi: Error 400: invalid video")
	}
	c.nextID++
	return &distribution.UploadResult{
		VideoID:   fmt.Sprintf("video-%d", c.nextID),
		Title:     req.Title,
		PublishAt: req.PublishAt,
	}, nil
}

// stubAuthenticator hands out the stub client or a configured error
type stubAuthenticator struct {
	client *stubVideoClient
	err    error
	calls  int
}

func (a *stubAuthenticator) Authenticate(ctx context.Context) (distribution.VideoClient, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.client, nil
}

// uploadContext holds test state for schedule upload scenarios
type uploadContext struct {
	tempDir      string
	schedulePath string
	client       *stubVideoClient
	auth         *stubAuthenticator
	ctx          context.Context
	cancel       context.CancelFunc
	pauses       []time.Duration
	report       *schedule.Report
	err          error
	outputBuffer *bytes.Buffer
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "upload-test-*")
		if err != nil {
			return c, err
		}
		client := &stubVideoClient{failTitles: make(map[string]bool)}
		runCtx, cancel := context.WithCancel(context.Background())
		SharedUploadContext = &uploadContext{
			tempDir:      tempDir,
			schedulePath: filepath.Join(tempDir, "videos.csv"),
			client:       client,
			auth:         &stubAuthenticator{client: client},
			ctx:          runCtx,
			cancel:       cancel,
			outputBuffer: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedUploadContext != nil {
			SharedUploadContext.cancel()
			os.RemoveAll(SharedUploadContext.tempDir)
		}
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^a schedule with rows:$`, aScheduleWithRows)
	ctx.Step(`^the video files "([^"]*)" exist$`, theVideoFilesExist)
	ctx.Step(`^the upload of "([^"]*)" will fail$`, theUploadOfWillFail)
	ctx.Step(`^authentication will fail$`, authenticationWillFail)
	ctx.Step(`^the operator stops the batch during the first upload$`, theOperatorStopsTheBatchDuringTheFirstUpload)
	ctx.Step(`^I run the batch$`, iRunTheBatch)
	ctx.Step(`^I run the batch in dry-run mode$`, iRunTheBatchInDryRunMode)
	ctx.Step(`^I run the batch against a missing schedule$`, iRunTheBatchAgainstAMissingSchedule)
	ctx.Step(`^the batch should end in state "([^"]*)"$`, theBatchShouldEndInState)
	ctx.Step(`^the uploaded titles should be "([^"]*)"$`, theUploadedTitlesShouldBe)
	ctx.Step(`^no upload should be attempted$`, noUploadShouldBeAttempted)
	ctx.Step(`^"([^"]*)" should be uploaded as private and scheduled for "([^"]*)"$`, shouldBeUploadedAsPrivateAndScheduledFor)
	ctx.Step(`^row (\d+) should be skipped because of "([^"]*)"$`, rowShouldBeSkippedBecauseOf)
	ctx.Step(`^row (\d+) should have failed$`, rowShouldHaveFailed)
	ctx.Step(`^the batch should pause (\d+) times?$`, theBatchShouldPauseTimes)
	ctx.Step(`^the batch should fail because the schedule was not found$`, theBatchShouldFailBecauseTheScheduleWasNotFound)
	ctx.Step(`^the batch should fail because authentication failed$`, theBatchShouldFailBecauseAuthenticationFailed)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
}

// aScheduleWithRows writes the table as CSV. Video paths are placed in the scenario directory.
func aScheduleWithRows(table *godog.Table) error {
	u := getUploadContext()

	f, err := os.Create(u.schedulePath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for i, row := range table.Rows {
		record := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			record[j] = cell.Value
		}
		if i > 0 && record[0] != "" {
			record[0] = filepath.Join(u.tempDir, record[0])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func theVideoFilesExist(names string) error {
	u := getUploadContext()
	for _, name := range strings.Split(names, ",") {
		path := filepath.Join(u.tempDir, strings.TrimSpace(name))
		if err := os.WriteFile(path, []byte("fake video content"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func theUploadOfWillFail(title string) error {
	getUploadContext().client.failTitles[title] = true
	return nil
}

func authenticationWillFail() error {
	getUploadContext().auth.err = errors.New("invalid_grant: token has been revoked")
	return nil
}

func theOperatorStopsTheBatchDuringTheFirstUpload() error {
	u := getUploadContext()
	u.client.onUpload = func(distribution.UploadRequest) {
		u.cancel()
	}
	return nil
}

func runBatch(path string, dryRun bool) {
	u := getUploadContext()
	record := func(ctx context.Context, d time.Duration) {
		u.pauses = append(u.pauses, d)
	}

	u.report, u.err = cmd.RunUploadWithDependencies(
		u.ctx,
		filesystem.NewChecker(),
		sheet.NewReader(),
		u.auth,
		appschedule.Options{SourcePath: path, Delay: 5 * time.Second, DryRun: dryRun},
		u.outputBuffer,
		appschedule.WithPauser(record),
	)
}

func iRunTheBatch() error {
	runBatch(getUploadContext().schedulePath, false)
	return nil
}

func iRunTheBatchInDryRunMode() error {
	runBatch(getUploadContext().schedulePath, true)
	return nil
}

func iRunTheBatchAgainstAMissingSchedule() error {
	u := getUploadContext()
	runBatch(filepath.Join(u.tempDir, "missing.csv"), false)
	return nil
}

func theBatchShouldEndInState(expected string) error {
	u := getUploadContext()
	if u.err != nil {
		return fmt.Errorf("unexpected error: %w", u.err)
	}
	if u.report.State.String() != expected {
		return fmt.Errorf("expected state %q, got %q", expected, u.report.State)
	}
	return nil
}

func theUploadedTitlesShouldBe(expected string) error {
	u := getUploadContext()
	var titles []string
	for _, req := range u.client.requests {
		titles = append(titles, req.Title)
	}
	if got := strings.Join(titles, ", "); got != expected {
		return fmt.Errorf("expected uploads %q, got %q", expected, got)
	}
	return nil
}

func noUploadShouldBeAttempted() error {
	u := getUploadContext()
	if len(u.client.requests) != 0 {
		return fmt.Errorf("expected no uploads, got %d", len(u.client.requests))
	}
	if u.auth.calls != 0 {
		return fmt.Errorf("expected no authentication, got %d calls", u.auth.calls)
	}
	return nil
}

func shouldBeUploadedAsPrivateAndScheduledFor(title, publishAt string) error {
	u := getUploadContext()
	for _, req := range u.client.requests {
		if req.Title != title {
			continue
		}
		if req.Privacy != distribution.PrivacyPrivate {
			return fmt.Errorf("expected private upload, got %q", req.Privacy)
		}
		if req.MadeForKids {
			return fmt.Errorf("expected made for kids to be false")
		}
		if req.PublishAt != publishAt {
			return fmt.Errorf("expected publishAt %q, got %q", publishAt, req.PublishAt)
		}
		return nil
	}
	return fmt.Errorf("no upload with title %q", title)
}

func findOutcome(line int) (*schedule.Outcome, error) {
	u := getUploadContext()
	if u.report == nil {
		return nil, fmt.Errorf("batch did not produce a report")
	}
	for i := range u.report.Outcomes {
		if u.report.Outcomes[i].Line == line {
			return &u.report.Outcomes[i], nil
		}
	}
	return nil, fmt.Errorf("no outcome for row %d", line)
}

func rowShouldBeSkippedBecauseOf(line int, reason string) error {
	outcome, err := findOutcome(line)
	if err != nil {
		return err
	}
	if outcome.Status != schedule.StatusSkipped {
		return fmt.Errorf("expected row %d to be skipped, got %s", line, outcome.Status)
	}
	if outcome.Reason != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, outcome.Reason)
	}
	return nil
}

func rowShouldHaveFailed(line int) error {
	outcome, err := findOutcome(line)
	if err != nil {
		return err
	}
	if outcome.Status != schedule.StatusFailed {
		return fmt.Errorf("expected row %d to fail, got %s", line, outcome.Status)
	}
	var uploadErr *distribution.UploadError
	if !errors.As(outcome.Err, &uploadErr) {
		return fmt.Errorf("expected an upload error, got %v", outcome.Err)
	}
	return nil
}

func theBatchShouldPauseTimes(expected int) error {
	u := getUploadContext()
	if len(u.pauses) != expected {
		return fmt.Errorf("expected %d pauses, got %d", expected, len(u.pauses))
	}
	return nil
}

func theBatchShouldFailBecauseTheScheduleWasNotFound() error {
	u := getUploadContext()
	if !errors.Is(u.err, schedule.ErrSourceNotFound) {
		return fmt.Errorf("expected source not found error, got %v", u.err)
	}
	return nil
}

func theBatchShouldFailBecauseAuthenticationFailed() error {
	u := getUploadContext()
	if !errors.Is(u.err, schedule.ErrAuthentication) {
		return fmt.Errorf("expected authentication error, got %v", u.err)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	u := getUploadContext()
	if !strings.Contains(u.outputBuffer.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, u.outputBuffer.String())
	}
	return nil
}
