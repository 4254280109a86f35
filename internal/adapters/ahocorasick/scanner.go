// Package ahocorasick implements the ports.TokenScanner contract with an
// Aho-Corasick automaton from github.com/petar-dambovaliev/aho-corasick.
// Leftmost-longest match semantics give maximal munch directly: at each
// position the longest declared token wins, and successive matches never
// overlap. Compilation is O(total pattern length); scanning is O(n + z).
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/translit/internal/ports"
)

// Scanner wraps a DFA automaton compiled from the declared token strings.
// Immutable after construction; safe for concurrent Scan calls.
type Scanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewScanner compiles a scanner over the declared tokens.
func NewScanner(tokens []string) *Scanner {
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		MatchKind: aho.LeftMostLongestMatch,
		DFA:       true,
	})
	p := make([]string, len(tokens))
	copy(p, tokens)
	return &Scanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Scan returns all non-overlapping leftmost-longest token matches in text,
// in input order, with byte offsets. Unmatched input shows up as gaps
// between successive matches.
//
// The automaton's iterator resumes one byte past each match's start, so it
// can report matches beginning inside a span already consumed; those are
// dropped here. The first match at or past the previous end is the
// maximal-munch continuation.
func (s *Scanner) Scan(text string) []ports.TokenMatch {
	iter := s.automaton.Iter(text)
	var matches []ports.TokenMatch
	lastEnd := 0
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if m.Start() < lastEnd {
			continue
		}
		matches = append(matches, ports.TokenMatch{
			Token: s.patterns[m.Pattern()],
			Start: m.Start(),
			End:   m.End(),
		})
		lastEnd = m.End()
	}
	return matches
}

// PatternCount returns the number of declared tokens in the automaton.
func (s *Scanner) PatternCount() int {
	return len(s.patterns)
}
