package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration and template files"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(root.Config, i.Force, g.stdout())
}

const headSkeleton = `\documentclass[10pt,a4paper]{article}
\usepackage{fontspec}
\usepackage{listings}
\usepackage[margin=1.5cm]{geometry}

\lstset{basicstyle=\ttfamily\small,breaklines=true,numbers=left}

% \code{name}{path} typesets one source file under its own heading.
\newcommand{\code}[2]{%
  \subsection*{#1}%
  \lstinputlisting{#2}%
}

\begin{document}
\tableofcontents
`

const tailSkeleton = `\end{document}
`

// RunInit writes the example configuration plus head and tail templates.
// Existing templates are left alone unless force is set.
func RunInit(configPath string, force bool, out io.Writer) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}
	fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	for _, tmpl := range []struct{ path, content string }{
		{config.DefaultHeadTemplate, headSkeleton},
		{config.DefaultTailTemplate, tailSkeleton},
	} {
		path := tmpl.path
		wrote, err := writeSkeleton(path, tmpl.content, force)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Fprintf(out, "Writing template %s\n", path)
		} else {
			fmt.Fprintf(out, "Keeping existing template %s\n", path)
		}
	}
	fmt.Fprintln(out, "initialized successfully")
	return nil
}

func writeSkeleton(path, content string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, ferrors.FileAccessError("write template").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return true, nil
}
