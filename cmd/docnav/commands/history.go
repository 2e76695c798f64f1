package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int    `short:"n" default:"20" help:"Number of builds to show (0 for all)"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	dbPath := cfg.Resolve(cfg.State.DB)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		_, _ = fmt.Fprintln(g.Out, "No builds recorded.")
		return nil
	}
	store, err := eventstore.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}

	if h.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(builds); err != nil {
			return writeError(err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tMODE\tTRIGGER\tPAGES\tBROKEN\tDURATION\tERROR")
	for _, b := range builds {
		errText := ""
		if b.ErrorMessage != "" {
			errText = b.ErrorStage + ": " + b.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			shortID(b.BuildID),
			b.StartedAt.Local().Format(time.DateTime),
			b.Status, b.Mode, b.Trigger,
			b.Rendered+b.Skipped, b.BrokenLinks,
			(time.Duration(b.DurationMS) * time.Millisecond).String(),
			errText)
	}
	if err := tw.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
