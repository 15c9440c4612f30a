package config

import (
	"os"
	"path/filepath"
)

// StagehandPath returns the root directory for Stagehand data.
// It uses $STAGEHAND_PATH if set, otherwise defaults to ~/.stagehand.
func StagehandPath() string {
	if v := os.Getenv("STAGEHAND_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".stagehand")
	}
	return filepath.Join(home, ".stagehand")
}

// ConfigPath returns the path to the Stagehand config file.
func ConfigPath() string {
	return filepath.Join(StagehandPath(), "config.jsonc")
}

// DotenvPath returns the path to the Stagehand .env file.
func DotenvPath() string {
	return filepath.Join(StagehandPath(), ".env")
}
