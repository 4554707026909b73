package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigNullSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"model_config":null}`), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Server == nil || config.Model == nil || config.Eval == nil {
		t.Fatal("loaded config has nil sections")
	}
	if got, want := config.Model.MaxOrder, DefaultModelConfig().MaxOrder; got != want {
		t.Errorf("MaxOrder = %d, want default %d", got, want)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Server == nil || config.Model == nil || config.Eval == nil {
		t.Fatal("default config has nil sections")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not created: %v", err)
	}
}
