package codefiles

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultPriorityKeyword puts judge harnesses ahead of the library code.
const DefaultPriorityKeyword = "judge"

// Sort orders refs in place: references whose lowercased path contains
// keyword come first, then the rest, each group ordered by name. Equal keys
// keep their discovery order. An empty keyword disables the priority bucket.
func Sort(refs []Reference, keyword string) {
	keyword = strings.ToLower(keyword)
	slices.SortStableFunc(refs, func(a, b Reference) int {
		if c := cmp.Compare(bucket(a, keyword), bucket(b, keyword)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func bucket(r Reference, keyword string) int {
	if keyword != "" && strings.Contains(strings.ToLower(r.Path), keyword) {
		return 0
	}
	return 1
}
