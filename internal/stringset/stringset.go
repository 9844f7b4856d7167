// Package stringset is a small set of strings used for allowed-key and
// initialism lookups.
package stringset

import (
	"bytes"
	"sort"
)

type Set map[string]struct{}

func New(vals ...string) Set {
	s := make(Set, len(vals))
	for _, val := range vals {
		s[val] = struct{}{}
	}
	return s
}

func (s Set) Add(val string) {
	s[val] = struct{}{}
}

func (s Set) Has(val string) bool {
	_, ok := s[val]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for val := range s {
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}

func (s Set) String() string {
	b := bytes.Buffer{}
	b.WriteRune('(')

	for _, val := range s.Sorted() {
		b.WriteString(val)
		b.WriteRune(' ')
	}

	if size := b.Len(); size > 1 {
		b.Truncate(size - 1)
	}

	b.WriteRune(')')

	return b.String()
}
