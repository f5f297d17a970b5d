package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"scheduled-uploader/infrastructure/config"
)

func TestRunConfigShowWithDependencies(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.File = "march.csv"
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	if err := RunConfigShowWithDependencies(cfg, path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"not found, using defaults",
		"schedule.file",
		"march.csv",
		"schedule.delay",
		"5s",
		"google.persist_token",
		"false",
		"8080",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
