package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/internal/config"
)

// NewInitCommand returns the onboarding subcommand.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Initialize the Stagehand home directory (~/.stagehand)",
		Action: runInit,
	}
}

func runInit(_ context.Context, _ *cli.Command) error {
	root := config.StagehandPath()
	created := false

	// Ensure directories exist.
	dirs := []string{
		root,
		filepath.Join(root, "blueprints"),
		filepath.Join(root, "sessions"),
		filepath.Join(root, "events"),
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", d, err)
			}
			fmt.Printf("  Created %s\n", d)
			created = true
		}
	}

	// Write default config if missing.
	configPath := config.ConfigPath()
	if _, err := os.Stat(configPath); err != nil {
		if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("  Created %s\n", configPath)
		created = true
	}

	// Write default .env if missing.
	dotenvPath := config.DotenvPath()
	if _, err := os.Stat(dotenvPath); err != nil {
		if err := os.WriteFile(dotenvPath, []byte(defaultDotenv), 0o600); err != nil {
			return fmt.Errorf("write .env: %w", err)
		}
		fmt.Printf("  Created %s\n", dotenvPath)
		created = true
	}

	if !created {
		fmt.Printf("Already set up — %s is complete. Nothing to do.\n", root)
		return nil
	}

	fmt.Println(initMessage(root))
	return nil
}

const defaultConfig = `{
	// Stagehand Configuration
	// Docs: https://github.com/dohr-michael/stagehand

	"gateway": {
		"host": "127.0.0.1",
		"port": 18620
	},

	"chat": {
		// Simulated thinking time between a reply and the next prompt.
		"work_delay": "400ms"
	},

	"blueprints": {
		// Extra directories scanned for *.yaml blueprints.
		// "dirs": ["~/my-blueprints"]
	},

	"events": {
		"buffer_size": 1024
	}
}
`

const defaultDotenv = `# Stagehand environment variables
# This file is loaded automatically. Existing env vars are never overridden.

# STAGEHAND_GATEWAY_TOKEN=...
`

func initMessage(root string) string {
	return fmt.Sprintf(`
  Stagehand is ready.

  Home set up at %s
  Config, blueprints, sessions, events — all in there.

  Next steps:
    1. Drop custom blueprints into %s/blueprints
    2. Tweak %s/config.jsonc if you feel like it
    3. Run: stagehand run starter

  Break a leg.
`, root, root, root)
}
