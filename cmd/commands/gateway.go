package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/internal/blueprints"
	"github.com/dohr-michael/stagehand/internal/events"
	"github.com/dohr-michael/stagehand/internal/gateway"
	"github.com/dohr-michael/stagehand/internal/sessions"
	"github.com/dohr-michael/stagehand/internal/storage"
)

// NewGatewayCommand returns the gateway subcommand.
func NewGatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Start the Stagehand gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runGateway,
	}
}

func runGateway(_ context.Context, cmd *cli.Command) error {
	// Setup debug logging
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := loadConfig(cmd)

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Event bus
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	// Blueprint registry: built-ins plus any configured directories
	registry := blueprints.NewRegistry()
	for _, err := range registry.LoadDirs(cfg.Blueprints.Dirs) {
		slog.Warn("blueprint skipped", "error", err)
	}
	slog.Info("blueprints loaded", "count", len(registry.List()))

	// Session store
	store := sessions.NewFileStore(cfg.Storage.SessionsDir)

	// Event log persists the bus stream as JSONL
	eventLog := storage.NewEventLogger(cfg.Storage.EventLogDir, bus)
	defer eventLog.Close()

	// Run history
	history, err := storage.OpenHistory(cfg.Storage.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()
	history.Attach(bus)

	// Session manager
	manager := gateway.NewManager(registry, store, bus, cfg.Chat.WorkDelay.Duration())

	// Gateway server
	server := gateway.NewServer(bus, store, manager, history, cfg.Gateway.Host, cfg.Gateway.Port)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for signal or error
	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
