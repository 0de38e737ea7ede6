package codefiles

import (
	"path"
	"slices"
	"strings"
)

// Reference is one discovered source file as it will be named in the document.
type Reference struct {
	Name string // File name without its final extension
	Path string // Slash-separated path relative to the reference base
}

// Extensions is an explicit allow-list of file suffixes, each with a leading dot.
type Extensions map[string]struct{}

// DefaultExtensions returns the C++, Java and shell allow-list.
func DefaultExtensions() Extensions {
	return NewExtensions("cpp", "java", "sh")
}

// NewExtensions builds an allow-list. Entries are accepted with or without the leading dot.
func NewExtensions(exts ...string) Extensions {
	set := make(Extensions, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

// Match reports whether the final extension of filename is in the allow-list.
// Matching is case-sensitive and only the last dot-separated segment counts,
// so "notes.cpp.txt" does not match ".cpp".
func (e Extensions) Match(filename string) bool {
	ext := path.Ext(filename)
	if ext == "" {
		return false
	}
	_, ok := e[ext]
	return ok
}

// List returns the allow-list entries in sorted order.
func (e Extensions) List() []string {
	out := make([]string, 0, len(e))
	for ext := range e {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// nameOf strips the final extension from a base name.
func nameOf(base string) string {
	return strings.TrimSuffix(base, path.Ext(base))
}
