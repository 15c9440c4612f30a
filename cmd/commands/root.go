package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "stagehand",
		Usage: "Blueprint-guided setup assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewInitCommand(),
			NewRunCommand(),
			NewGatewayCommand(),
			NewAttachCommand(),
			NewBlueprintsCommand(),
			NewSessionsCommand(),
			NewRunsCommand(),
		},
	}
}

// loadConfig reads the configured file, falling back to defaults when missing.
func loadConfig(cmd *cli.Command) *config.Config {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Default()
	}
	return cfg
}
