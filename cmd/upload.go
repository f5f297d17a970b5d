package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appdist "scheduled-uploader/application/distribution"
	appschedule "scheduled-uploader/application/schedule"
	"scheduled-uploader/domain/distribution"
	"scheduled-uploader/domain/schedule"
	"scheduled-uploader/infrastructure/config"
	"scheduled-uploader/infrastructure/filesystem"
	"scheduled-uploader/infrastructure/sheet"
	"scheduled-uploader/infrastructure/youtube"

	"github.com/spf13/cobra"
)

var (
	uploadSchedule string
	uploadDelay    time.Duration
	uploadDryRun   bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload every valid row of the schedule",
	Long: `Upload each row of the schedule CSV as a private YouTube video that
publishes at the row's scheduled date and time.

Rows with a missing video file, a missing or unparseable date or time, or a
video file that does not exist are skipped. A failed upload is reported and
the batch continues with the next row. Press Ctrl+C to stop after the
current upload.

Dates may be written as YYYY-MM-DD, MM/DD/YYYY or MM-DD-YY; times as HH:MM:SS.
The values are sent as UTC without conversion.

Example:
  scheduled-uploader upload
  scheduled-uploader upload --schedule march.csv --delay 30s
  scheduled-uploader upload --dry-run`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	addUploadFlags(uploadCmd)
}

func addUploadFlags(c *cobra.Command) {
	c.Flags().StringVar(&uploadSchedule, "schedule", config.DefaultScheduleFile, "Path to the schedule CSV (overrides schedule.file)")
	c.Flags().DurationVar(&uploadDelay, "delay", config.DefaultDelay, "Pause after each upload attempt (overrides schedule.delay)")
	c.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Validate the schedule without authenticating or uploading")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	opts := appschedule.Options{
		SourcePath: cfg.Schedule.File,
		Delay:      cfg.Schedule.Delay,
		DryRun:     uploadDryRun,
	}
	if cmd.Flags().Changed("schedule") {
		opts.SourcePath = uploadSchedule
	}
	if cmd.Flags().Changed("delay") {
		if uploadDelay < 0 {
			return fmt.Errorf("--delay must not be negative, got %s", uploadDelay)
		}
		opts.Delay = uploadDelay
	}

	_, err = RunUploadWithDependencies(
		cmd.Context(),
		filesystem.NewChecker(),
		sheet.NewReader(sheet.WithComma(cfg.Comma())),
		youtube.NewOAuthAuthenticator(oauthConfig(cfg), os.Stdout),
		opts,
		os.Stdout,
	)
	return err
}

func oauthConfig(cfg *config.Config) youtube.OAuthConfig {
	return youtube.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
		PersistToken:    cfg.Google.PersistToken,
		RedirectPort:    cfg.Google.RedirectPort,
	}
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	files schedule.FileChecker,
	reader appschedule.RowReader,
	auth distribution.Authenticator,
	opts appschedule.Options,
	output io.Writer,
	serviceOpts ...appschedule.ServiceOption,
) (*schedule.Report, error) {
	service := appschedule.NewService(
		files,
		reader,
		auth,
		schedule.NewValidator(files),
		appdist.NewUploadService(),
		output,
		serviceOpts...,
	)

	report, err := service.Run(ctx, opts)
	if err != nil {
		return report, err
	}

	if report.State == schedule.StateAborted {
		fmt.Fprintln(output, "Stopped by user.")
	}
	return report, nil
}
