package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/clients/tui"
	"github.com/dohr-michael/stagehand/internal/sessions"
)

// NewSessionsCommand returns the sessions subcommand.
func NewSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Inspect saved sessions",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all sessions",
				Action: runSessionsList,
			},
			{
				Name:      "show",
				Usage:     "Show the transcript of a session",
				ArgsUsage: "<session_id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rendered",
						Usage: "Render message markup for the terminal",
					},
				},
				Action: runSessionsShow,
			},
		},
		DefaultCommand: "list",
	}
}

func newStore(cmd *cli.Command) *sessions.FileStore {
	return sessions.NewFileStore(loadConfig(cmd).Storage.SessionsDir)
}

func runSessionsList(_ context.Context, cmd *cli.Command) error {
	store := newStore(cmd)

	list, err := store.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBLUEPRINT\tSTATUS\tSTEPS\tMESSAGES\tUPDATED\tOUTCOME")
	for _, s := range list {
		outcome := s.Outcome
		if outcome == "" {
			outcome = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%s\t%s\n",
			s.ID,
			s.Blueprint,
			s.Status,
			s.CompletedSteps,
			s.TotalSteps,
			s.MessageCount,
			s.UpdatedAt.Format("2006-01-02 15:04"),
			outcome,
		)
	}
	return w.Flush()
}

func runSessionsShow(_ context.Context, cmd *cli.Command) error {
	sessionID := cmd.Args().First()
	if sessionID == "" {
		return fmt.Errorf("usage: stagehand sessions show <session_id>")
	}

	store := newStore(cmd)

	msgs, err := store.LoadMessages(sessionID)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages in this session.")
		return nil
	}

	rendered := cmd.Bool("rendered")
	for _, m := range msgs {
		content := m.Content
		if rendered {
			content = tui.RenderMarkdown(content, 80)
		}
		fmt.Printf("[%s] %s: %s\n", m.Ts.Format("15:04:05"), m.Sender, content)
	}
	return nil
}
