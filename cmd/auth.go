package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"scheduled-uploader/domain/distribution"
	"scheduled-uploader/domain/schedule"
	"scheduled-uploader/infrastructure/youtube"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize YouTube uploads without uploading anything",
	Long: `Run the OAuth consent flow (or refresh the cached token) and exit.

Set google.persist_token to true in the config file to keep the token for
later runs; otherwise the next upload asks for consent again.

Example:
  scheduled-uploader auth`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunAuthWithDependencies(cmd.Context(), youtube.NewOAuthAuthenticator(oauthConfig(cfg), os.Stdout), os.Stdout)
}

// RunAuthWithDependencies runs the auth command with injected dependencies (for testing)
func RunAuthWithDependencies(ctx context.Context, auth distribution.Authenticator, output io.Writer) error {
	if _, err := auth.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %w", schedule.ErrAuthentication, err)
	}
	fmt.Fprintln(output, "Authorized for YouTube uploads.")
	return nil
}
