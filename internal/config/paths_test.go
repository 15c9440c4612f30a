package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStagehandPath_Default(t *testing.T) {
	t.Setenv("STAGEHAND_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := StagehandPath()
	want := filepath.Join(home, ".stagehand")
	if got != want {
		t.Errorf("StagehandPath() = %q, want %q", got, want)
	}
}

func TestStagehandPath_EnvOverride(t *testing.T) {
	t.Setenv("STAGEHAND_PATH", "/tmp/custom-stagehand")

	got := StagehandPath()
	want := "/tmp/custom-stagehand"
	if got != want {
		t.Errorf("StagehandPath() = %q, want %q", got, want)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("STAGEHAND_PATH", "/tmp/test-stagehand")

	got := ConfigPath()
	want := "/tmp/test-stagehand/config.jsonc"
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestDotenvPath(t *testing.T) {
	t.Setenv("STAGEHAND_PATH", "/tmp/test-stagehand")

	got := DotenvPath()
	want := "/tmp/test-stagehand/.env"
	if got != want {
		t.Errorf("DotenvPath() = %q, want %q", got, want)
	}
}
