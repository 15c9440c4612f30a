package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/clients/tui"
	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/events"
	"github.com/dohr-michael/stagehand/internal/gateway"
	"github.com/dohr-michael/stagehand/internal/sessions"
	"github.com/dohr-michael/stagehand/internal/storage"
)

// NewRunCommand returns the local (in-process) run subcommand.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a blueprint in the terminal",
		ArgsUsage: "[blueprint]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "seed",
				Usage: "Pre-answered step as key=value (repeatable)",
			},
		},
		Action: runRun,
	}
}

func runRun(_ context.Context, cmd *cli.Command) error {
	// The TUI owns the terminal, keep slog off stderr unless debugging.
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	cfg := loadConfig(cmd)

	blueprintID := cmd.Args().First()
	if blueprintID == "" {
		blueprintID = "starter"
	}

	seed, err := parseSeed(cmd.StringSlice("seed"))
	if err != nil {
		return err
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	registry := blueprints.NewRegistry()
	for _, err := range registry.LoadDirs(cfg.Blueprints.Dirs) {
		slog.Warn("blueprint skipped", "error", err)
	}

	store := sessions.NewFileStore(cfg.Storage.SessionsDir)

	eventLog := storage.NewEventLogger(cfg.Storage.EventLogDir, bus)
	defer eventLog.Close()

	history, err := storage.OpenHistory(cfg.Storage.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()
	history.Attach(bus)

	manager := gateway.NewManager(registry, store, bus, cfg.Chat.WorkDelay.Duration())
	defer manager.Close()

	sessionID, _, err := manager.Open(blueprintID, seed)
	if err != nil {
		return err
	}

	svc, err := manager.Get(sessionID)
	if err != nil {
		return err
	}

	completed := false
	model := tui.NewMainModel(svc, sessionID, func() {
		completed = true
	}).WithBlueprint(svc.Blueprint().Title)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if completed {
		fmt.Printf("Run complete. Session %s saved.\n", sessionID)
	} else {
		fmt.Printf("Session %s left off. Transcript saved.\n", sessionID)
	}
	return nil
}

// parseSeed turns key=value pairs into a seed map.
func parseSeed(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	seed := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid seed %q, expected key=value", p)
		}
		seed[key] = value
	}
	return seed, nil
}
