package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunModelsUnsupportedProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	prev := configPath
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { configPath = prev })

	err := runModels(modelsCmd, nil)
	if err == nil {
		t.Fatal("expected error for a provider without model listing")
	}
	if !strings.Contains(err.Error(), "does not support model listing") {
		t.Errorf("unexpected error: %v", err)
	}
}
