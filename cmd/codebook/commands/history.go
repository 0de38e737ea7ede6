package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/gitinfo"
	"git.home.luguber.info/inful/codebook/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show (0 for all)" default:"10"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	return RunHistory(g, cfg, h.Limit)
}

// RunHistory prints the most recent builds, newest first.
func RunHistory(g *Global, cfg *config.Config, limit int) error {
	out := g.stdout()
	if cfg.History.Path == "" {
		return ferrors.ConfigError("build history is disabled (set history.path)").Build()
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory(store)

	records, err := store.Recent(g.ctx(), limit)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "read build history").Build()
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No builds recorded")
		return nil
	}
	return writeHistory(out, records)
}

func writeHistory(out io.Writer, records []history.Record) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUILD\tSTARTED\tDURATION\tOUTCOME\tREFS\tPASSES\tREVISION\tERROR")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			shortID(r.BuildID),
			humanize.Time(r.StartedAt),
			r.Duration().Round(time.Millisecond),
			r.Outcome,
			r.References,
			r.Passes,
			gitinfo.Short(r.Revision),
			r.Error)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
