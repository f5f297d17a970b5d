package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scheduled-uploader/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates the config file.

This command guides you through choosing the schedule CSV, the pause
between uploads, and the Google OAuth settings used to reach YouTube.
The file is written to the path given by --config.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(configPath)), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to scheduled-uploader setup!")
	fmt.Println()

	cfg := config.Default()

	// Schedule section
	if err := promptSchedule(prompter, cfg); err != nil {
		return err
	}

	// Google section
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptSchedule(prompter Prompter, cfg *config.Config) error {
	file, err := prompter.Input("Path to the schedule CSV?", config.DefaultScheduleFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if file == "" {
		file = config.DefaultScheduleFile
	}
	cfg.Schedule.File = file

	delay, err := prompter.Input("Pause between uploads?", config.DefaultDelay.String())
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if delay == "" {
		cfg.Schedule.Delay = config.DefaultDelay
	} else {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid pause %q: use a duration like 5s or 1m", delay)
		}
		cfg.Schedule.Delay = d
	}

	delimiter, err := prompter.Input("Column delimiter?", config.DefaultDelimiter)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if delimiter == "" {
		delimiter = config.DefaultDelimiter
	}
	cfg.Schedule.Delimiter = delimiter

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	credentials, err := prompter.Input("Path to OAuth client secrets file?", config.DefaultCredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials == "" {
		credentials = config.DefaultCredentialsFile
	}
	cfg.Google.CredentialsFile = credentials

	token, err := prompter.Input("Path to OAuth token file?", config.DefaultTokenFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if token == "" {
		token = config.DefaultTokenFile
	}
	cfg.Google.TokenFile = token

	persist, err := prompter.Confirm("Keep the OAuth token between runs?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Google.PersistToken = persist

	port, err := prompter.Input("Local port for the OAuth callback?", strconv.Itoa(config.DefaultRedirectPort))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if port == "" {
		cfg.Google.RedirectPort = config.DefaultRedirectPort
	} else {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
		cfg.Google.RedirectPort = p
	}

	return nil
}
