package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/codebook/internal/assemble"
	"git.home.luguber.info/inful/codebook/internal/build"
	"git.home.luguber.info/inful/codebook/internal/config"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Lines bool `help:"Print the rendered reference lines instead of name and path"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	return RunDiscover(cfg, d.Lines, g.stdout())
}

// RunDiscover prints the references a build would write, in document order.
func RunDiscover(cfg *config.Config, lines bool, out io.Writer) error {
	opts, err := build.AssembleOptions(cfg)
	if err != nil {
		return err
	}
	refs, err := assemble.New(opts).Collect()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if lines {
			fmt.Fprint(out, opts.Line.Render(ref))
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", ref.Name, ref.Path)
	}
	return nil
}
