package cmd

import (
	"context"
	"fmt"
	"os"

	"scheduled-uploader/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "scheduled-uploader",
	Short: "Upload videos to YouTube on a schedule from a CSV sheet",
	Long: `scheduled-uploader reads a CSV schedule and uploads each listed video
to YouTube as a private video set to publish at its scheduled time.

The schedule needs a header row with these columns:

  video_file, title, description, scheduled_date, schedule_time

Running without a subcommand is the same as running "upload".

Example:
  scheduled-uploader --schedule videos.csv --delay 10s`,
	RunE: runUpload,
}

// Execute runs the root command. Cancelling ctx stops the batch before the next row.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file (optional)")
	addUploadFlags(rootCmd)
}

func initConfig() {
	// A missing file means defaults; a broken one is reported by the commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
