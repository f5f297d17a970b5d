//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scheduled-uploader/cmd"
	"scheduled-uploader/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	output     *bytes.Buffer
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil && SharedConfigContext.tempDir != "" {
			os.RemoveAll(SharedConfigContext.tempDir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^a configuration file containing:$`, aConfigurationFileContaining)
	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, iAttemptToLoadTheConfiguration)
	ctx.Step(`^the schedule file should be "([^"]*)"$`, theScheduleFileShouldBe)
	ctx.Step(`^the schedule delay should be "([^"]*)"$`, theScheduleDelayShouldBe)
	ctx.Step(`^the redirect port should be (\d+)$`, theRedirectPortShouldBe)
	ctx.Step(`^token persistence should be (on|off)$`, tokenPersistenceShouldBe)
	ctx.Step(`^I should receive a configuration error mentioning "([^"]*)"$`, iShouldReceiveAConfigurationErrorMentioning)
	ctx.Step(`^I show the configuration$`, iShowTheConfiguration)
	ctx.Step(`^the configuration output should contain "([^"]*)"$`, theConfigurationOutputShouldContain)
}

func getConfigContext() *configContext {
	return SharedConfigContext
}

func aConfigurationFileContaining(doc *godog.DocString) error {
	c := getConfigContext()
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func noConfigurationFileExists() error {
	c := getConfigContext()
	if _, err := os.Stat(c.configPath); err == nil {
		return fmt.Errorf("config file unexpectedly exists at %s", c.configPath)
	}
	return nil
}

func iLoadTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iAttemptToLoadTheConfiguration() error {
	c := getConfigContext()
	c.cfg, c.loadErr = config.LoadOrDefault(c.configPath)
	return nil
}

func theScheduleFileShouldBe(expected string) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Schedule.File != expected {
		return fmt.Errorf("expected schedule file %q, got %q", expected, c.cfg.Schedule.File)
	}
	return nil
}

func theScheduleDelayShouldBe(expected string) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Schedule.Delay.String() != expected {
		return fmt.Errorf("expected schedule delay %s, got %s", expected, c.cfg.Schedule.Delay)
	}
	return nil
}

func theRedirectPortShouldBe(expected int) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Google.RedirectPort != expected {
		return fmt.Errorf("expected redirect port %d, got %d", expected, c.cfg.Google.RedirectPort)
	}
	return nil
}

func tokenPersistenceShouldBe(state string) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Google.PersistToken != (state == "on") {
		return fmt.Errorf("expected token persistence %s, got %v", state, c.cfg.Google.PersistToken)
	}
	return nil
}

func iShouldReceiveAConfigurationErrorMentioning(text string) error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.loadErr.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got: %v", text, c.loadErr)
	}
	return nil
}

func iShowTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	return cmd.RunConfigShowWithDependencies(cfg, c.configPath, c.output)
}

func theConfigurationOutputShouldContain(text string) error {
	c := getConfigContext()
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}
