package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/internal/storage"
)

// NewRunsCommand returns the run-history subcommand.
func NewRunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show completed run history",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: runRunsList,
	}
}

func runRunsList(_ context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	history, err := storage.OpenHistory(cfg.Storage.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	runs, err := history.ListRuns(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No completed runs yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tBLUEPRINT\tSTEPS\tDURATION\tOUTCOME\tFINISHED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.SessionID,
			r.Blueprint,
			r.Steps,
			r.Duration.Round(time.Millisecond),
			r.Outcome,
			r.FinishedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}
