//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scheduled-uploader/cmd"
	"scheduled-uploader/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	err             error
}

// SharedSetupContext is reset before each scenario via Before hook
var SharedSetupContext *setupContext

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		SharedSetupContext = &setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSetupContext != nil && SharedSetupContext.tempDir != "" {
			os.RemoveAll(SharedSetupContext.tempDir)
		}
		SharedSetupContext = nil
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, iRunTheSetupCommandWithConfirmationAndInputs)
	ctx.Step(`^I attempt to run the setup command with inputs:$`, iAttemptToRunTheSetupCommandWithInputs)
	ctx.Step(`^a config file should exist$`, aConfigFileShouldExist)
	ctx.Step(`^the saved config should have schedule file "([^"]*)"$`, theSavedConfigShouldHaveScheduleFile)
	ctx.Step(`^the saved config should have delay "([^"]*)"$`, theSavedConfigShouldHaveDelay)
	ctx.Step(`^the saved config should have credentials file "([^"]*)"$`, theSavedConfigShouldHaveCredentialsFile)
	ctx.Step(`^the saved config should have redirect port (\d+)$`, theSavedConfigShouldHaveRedirectPort)
	ctx.Step(`^the saved config should (keep|not keep) the token$`, theSavedConfigShouldKeepTheToken)
	ctx.Step(`^the setup should be cancelled$`, theSetupShouldBeCancelled)
	ctx.Step(`^the setup should fail mentioning "([^"]*)"$`, theSetupShouldFailMentioning)
	ctx.Step(`^the existing config should be unchanged$`, theExistingConfigShouldBeUnchanged)
}

func getSetupContext() *setupContext {
	return SharedSetupContext
}

func noConfigFileExistsForSetup() error {
	s := getSetupContext()
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func aConfigFileAlreadyExistsForSetup() error {
	s := getSetupContext()
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `schedule:
  file: "original.csv"
  delay: 10s
google:
  credentials_file: "original-secrets.json"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func iRunTheSetupCommandWithInputs(table *godog.Table) error {
	s := getSetupContext()
	inputs, confirms := parseInputTable(table)

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms), s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func iAttemptToRunTheSetupCommandWithInputs(table *godog.Table) error {
	s := getSetupContext()
	inputs, confirms := parseInputTable(table)

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms), s.configPath)
	return nil
}

func iRunTheSetupCommandWithConfirmation(confirmation string) error {
	s := getSetupContext()
	confirm := strings.ToLower(confirmation) == "y"

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter([]string{}, []bool{confirm}), s.configPath)
	if !confirm {
		s.setupCancelled = true
	}
	return nil
}

func iRunTheSetupCommandWithConfirmationAndInputs(confirmation string, table *godog.Table) error {
	s := getSetupContext()
	confirm := strings.ToLower(confirmation) == "y"
	inputs, confirms := parseInputTable(table)

	// Prepend the overwrite confirmation
	allConfirms := append([]bool{confirm}, confirms...)

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, allConfirms), s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

// parseInputTable splits a prompt/value table into text answers and yes/no answers
func parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		// Yes/no prompts start with "keep"
		if strings.HasPrefix(prompt, "keep") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func loadSavedConfig() (*config.Config, error) {
	cfg, err := config.Load(getSetupContext().configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func aConfigFileShouldExist() error {
	s := getSetupContext()
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func theSavedConfigShouldHaveScheduleFile(expected string) error {
	cfg, err := loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Schedule.File != expected {
		return fmt.Errorf("expected schedule file %q, got %q", expected, cfg.Schedule.File)
	}
	return nil
}

func theSavedConfigShouldHaveDelay(expected string) error {
	cfg, err := loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Schedule.Delay.String() != expected {
		return fmt.Errorf("expected delay %s, got %s", expected, cfg.Schedule.Delay)
	}
	return nil
}

func theSavedConfigShouldHaveCredentialsFile(expected string) error {
	cfg, err := loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Google.CredentialsFile != expected {
		return fmt.Errorf("expected credentials file %q, got %q", expected, cfg.Google.CredentialsFile)
	}
	return nil
}

func theSavedConfigShouldHaveRedirectPort(expected int) error {
	cfg, err := loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Google.RedirectPort != expected {
		return fmt.Errorf("expected redirect port %d, got %d", expected, cfg.Google.RedirectPort)
	}
	return nil
}

func theSavedConfigShouldKeepTheToken(mode string) error {
	cfg, err := loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Google.PersistToken != (mode == "keep") {
		return fmt.Errorf("expected persist_token %v, got %v", mode == "keep", cfg.Google.PersistToken)
	}
	return nil
}

func theSetupShouldBeCancelled() error {
	s := getSetupContext()
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func theSetupShouldFailMentioning(text string) error {
	s := getSetupContext()
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got: %v", text, s.err)
	}
	return nil
}

func theExistingConfigShouldBeUnchanged() error {
	s := getSetupContext()
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
