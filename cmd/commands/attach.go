package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/clients/tui"
	wsclient "github.com/dohr-michael/stagehand/clients/ws"
)

// NewAttachCommand returns the remote-session subcommand.
func NewAttachCommand() *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Attach the terminal UI to a running gateway",
		ArgsUsage: "[session-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Gateway host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Gateway port",
			},
			&cli.StringFlag{
				Name:  "blueprint",
				Usage: "Blueprint to open when no session ID is given",
				Value: "starter",
			},
			&cli.StringSliceFlag{
				Name:  "seed",
				Usage: "Pre-answered step as key=value (repeatable)",
			},
		},
		Action: runAttach,
	}
}

func runAttach(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	cfg := loadConfig(cmd)
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}

	url := fmt.Sprintf("ws://%s:%d/api/ws", cfg.Gateway.Host, cfg.Gateway.Port)
	client, err := wsclient.Dial(ctx, url)
	if err != nil {
		return fmt.Errorf("connect to gateway at %s: %w", url, err)
	}
	defer client.Close()

	sessionID := cmd.Args().First()
	blueprint := ""
	if sessionID == "" {
		seed, err := parseSeed(cmd.StringSlice("seed"))
		if err != nil {
			return err
		}
		blueprint = cmd.String("blueprint")
		sessionID, err = openRemoteSession(client, blueprint, seed)
		if err != nil {
			return err
		}
	}

	remote := tui.NewRemoteSession(client, sessionID)
	model := tui.NewMainModel(remote, sessionID, nil).WithBlueprint(blueprint)
	p := tea.NewProgram(model, tea.WithAltScreen())

	remote.Start(ctx, func(err error) {
		p.Send(tui.DisconnectedMsg{Err: err})
	})
	p.Send(tui.ConnectedMsg{SessionID: sessionID, Client: client})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// openRemoteSession opens a gateway session and waits for the response
// frame carrying the new session ID.
func openRemoteSession(client *wsclient.Client, blueprint string, seed map[string]string) (string, error) {
	reqID, err := client.OpenSession(blueprint, seed)
	if err != nil {
		return "", err
	}

	for {
		frame, err := client.ReadFrame()
		if err != nil {
			return "", fmt.Errorf("open session: %w", err)
		}
		if frame.ID != reqID {
			continue
		}
		if frame.OK == nil || !*frame.OK {
			return "", fmt.Errorf("open session: %s", frame.Error)
		}
		var body struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(frame.Payload, &body); err != nil {
			return "", fmt.Errorf("open session: %w", err)
		}
		return body.SessionID, nil
	}
}
