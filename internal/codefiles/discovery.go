package codefiles

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/logfields"
)

// Discovery walks a source tree collecting references to recognised files.
type Discovery struct {
	root string
	base string
	exts Extensions
}

// NewDiscovery creates a discovery for root. Reference paths are computed
// relative to base; an empty base means root itself.
func NewDiscovery(root, base string, exts Extensions) *Discovery {
	if base == "" {
		base = root
	}
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	return &Discovery{root: root, base: base, exts: exts}
}

// Discover returns the references found under the root in walk order.
// Directories are traversed but never referenced. Duplicates are not collapsed.
func (d *Discovery) Discover() ([]Reference, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileAccess, "read root directory").
			Fatal().
			WithContext("path", d.root).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.FileAccessError("root is not a directory").
			WithContext("path", d.root).
			Build()
	}

	refs := make([]Reference, 0)
	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if p == d.root {
				return err
			}
			slog.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() && !isRegularTarget(p) {
			return nil
		}
		if !d.exts.Match(entry.Name()) {
			return nil
		}

		rel, err := d.relative(p)
		if err != nil {
			return err
		}

		ref := Reference{Name: nameOf(entry.Name()), Path: rel}
		refs = append(refs, ref)
		slog.Debug("Discovered code file", logfields.Name(ref.Name), logfields.File(ref.Path))
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileAccess, "walk root directory").
			Fatal().
			WithContext("path", d.root).
			Build()
	}

	slog.Info("Code files discovered", logfields.Root(d.root), logfields.Count(len(refs)))
	return refs, nil
}

// relative renders p relative to the base with forward slashes.
func (d *Discovery) relative(p string) (string, error) {
	base := d.base
	if filepath.IsAbs(base) != filepath.IsAbs(p) {
		var err error
		if base, err = filepath.Abs(base); err != nil {
			return "", err
		}
		if p, err = filepath.Abs(p); err != nil {
			return "", err
		}
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	// Backslashes are rewritten even on hosts where they are not separators.
	return strings.ReplaceAll(rel, `\`, "/"), nil
}

// isRegularTarget follows a symlink and reports whether it points at a regular file.
func isRegularTarget(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
