package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"scheduled-uploader/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput io.Writer = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Inspect the configuration used by upload and auth.

Examples:
  scheduled-uploader config show
  scheduled-uploader --config other.yaml config show`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print every setting with the value upload would use, after defaults
are applied for keys missing from the file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigShowWithDependencies prints cfg as a key/value table
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	source := configPath
	if _, err := os.Stat(configPath); err != nil {
		source = configPath + " (not found, using defaults)"
	}
	fmt.Fprintf(out, "Config: %s\n\n", source)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintln(w, "---\t-----")
	fmt.Fprintf(w, "schedule.file\t%s\n", cfg.Schedule.File)
	fmt.Fprintf(w, "schedule.delay\t%s\n", cfg.Schedule.Delay)
	fmt.Fprintf(w, "schedule.delimiter\t%q\n", cfg.Schedule.Delimiter)
	fmt.Fprintf(w, "google.credentials_file\t%s\n", cfg.Google.CredentialsFile)
	fmt.Fprintf(w, "google.token_file\t%s\n", cfg.Google.TokenFile)
	fmt.Fprintf(w, "google.persist_token\t%s\n", strconv.FormatBool(cfg.Google.PersistToken))
	fmt.Fprintf(w, "google.redirect_port\t%d\n", cfg.Google.RedirectPort)
	return w.Flush()
}
