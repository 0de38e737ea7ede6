// Package codefiles discovers source files that belong in the notebook and
// orders them for rendering.
//
// Discovery walks a root directory in lexical order and keeps every regular
// file whose final extension is in an explicit allow-list. Sort then places
// files whose path mentions the priority keyword ("judge" by default) ahead
// of all others, ordering each bucket by name.
package codefiles
