// Package assemble builds the intermediate LaTeX document: the head template,
// one reference line per discovered source file, then the tail template.
package assemble

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/codebook/internal/codefiles"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/logfields"
)

// Options describes one assembly run. All paths are used as given.
type Options struct {
	HeadPath        string
	TailPath        string
	Root            string
	Base            string // Directory reference paths are relative to; defaults to Root
	OutputPath      string
	Extensions      codefiles.Extensions
	PriorityKeyword string
	Line            LineTemplate
}

// Assembler writes the intermediate document.
type Assembler struct {
	opts Options
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Collect discovers and orders the references without touching the templates.
func (a *Assembler) Collect() ([]codefiles.Reference, error) {
	refs, err := codefiles.NewDiscovery(a.opts.Root, a.opts.Base, a.opts.Extensions).Discover()
	if err != nil {
		return nil, err
	}
	codefiles.Sort(refs, a.opts.PriorityKeyword)
	return refs, nil
}

// Run reads both templates, collects references and overwrites the output
// document. Templates are read before the walk so a missing template fails fast.
func (a *Assembler) Run(ctx context.Context) ([]codefiles.Reference, error) {
	head, err := readTemplate(a.opts.HeadPath, "head")
	if err != nil {
		return nil, err
	}
	tail, err := readTemplate(a.opts.TailPath, "tail")
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryCanceled, "assembly canceled").Build()
	}

	refs, err := a.Collect()
	if err != nil {
		return nil, err
	}

	doc := Assemble(head, tail, refs, a.opts.Line)
	if err := os.WriteFile(a.opts.OutputPath, doc, 0o644); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileAccess, "write output document").
			Fatal().
			WithContext("path", a.opts.OutputPath).
			Build()
	}

	slog.Info("Document assembled",
		logfields.Output(a.opts.OutputPath),
		logfields.Count(len(refs)),
		slog.Int("bytes", len(doc)))
	return refs, nil
}

// Assemble concatenates head, the rendered reference lines and tail.
func Assemble(head, tail []byte, refs []codefiles.Reference, line LineTemplate) []byte {
	var buf bytes.Buffer
	buf.Grow(len(head) + len(tail) + 64*len(refs))
	buf.Write(head)
	for _, ref := range refs {
		buf.WriteString(line.Render(ref))
	}
	buf.Write(tail)
	return buf.Bytes()
}

func readTemplate(path, which string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileAccess, "read "+which+" template").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return data, nil
}
