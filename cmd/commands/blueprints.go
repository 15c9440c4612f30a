package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/stagehand/clients/tui"
	"github.com/dohr-michael/stagehand/internal/blueprints"
)

// NewBlueprintsCommand returns the blueprints subcommand.
func NewBlueprintsCommand() *cli.Command {
	return &cli.Command{
		Name:  "blueprints",
		Usage: "Inspect available blueprints",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all blueprints",
				Action: runBlueprintsList,
			},
			{
				Name:      "show",
				Usage:     "Show the steps of a blueprint",
				ArgsUsage: "<blueprint_id>",
				Action:    runBlueprintsShow,
			},
		},
		DefaultCommand: "list",
	}
}

func newBlueprintRegistry(cmd *cli.Command) *blueprints.Registry {
	registry := blueprints.NewRegistry()
	for _, err := range registry.LoadDirs(loadConfig(cmd).Blueprints.Dirs) {
		slog.Warn("blueprint skipped", "error", err)
	}
	return registry
}

func runBlueprintsList(_ context.Context, cmd *cli.Command) error {
	registry := newBlueprintRegistry(cmd)

	list := registry.List()
	if len(list) == 0 {
		fmt.Println("No blueprints found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTEPS\tTITLE")
	for _, bp := range list {
		fmt.Fprintf(w, "%s\t%d\t%s\n", bp.ID, len(bp.Steps), bp.Title)
	}
	return w.Flush()
}

func runBlueprintsShow(_ context.Context, cmd *cli.Command) error {
	blueprintID := cmd.Args().First()
	if blueprintID == "" {
		return fmt.Errorf("usage: stagehand blueprints show <blueprint_id>")
	}

	registry := newBlueprintRegistry(cmd)
	bp, err := registry.Get(blueprintID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n\n", bp.Title, bp.ID)
	if bp.Summary != "" {
		fmt.Println(tui.RenderMarkdown(bp.Summary, 80))
	}
	for i, step := range bp.Steps {
		fmt.Printf("  %d. %s", i+1, step.ID)
		if len(step.Replies) > 0 {
			fmt.Print(" [")
			for j, r := range step.Replies {
				if j > 0 {
					fmt.Print(", ")
				}
				fmt.Print(r.Action)
			}
			fmt.Print("]")
		}
		fmt.Println()
	}
	return nil
}
