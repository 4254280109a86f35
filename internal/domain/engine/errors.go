package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. The typed errors below unwrap to
// these while carrying position and rule detail.
var (
	ErrNoMatchingRule    = errors.New("no matching transliteration rule")
	ErrUnrecognizedToken = errors.New("unrecognized input token")
	ErrAmbiguousRules    = errors.New("ambiguous transliteration rules")
	ErrInvalidRule       = errors.New("invalid transliteration rule")
)

// NoMatchError reports that no rule matched at a token position during
// transliteration. Recoverable: with IgnoreErrors set, the engine skips
// one token and continues instead of returning this.
type NoMatchError struct {
	Position int    // index into the sentinel-bounded token slice
	Token    string // token at that position
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching transliteration rule at token %d (%q)", e.Position, e.Token)
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatchingRule }

// UnrecognizedTokenError reports input text that no declared token matches.
// Position is a byte offset into the original input string.
type UnrecognizedTokenError struct {
	Position int
	Input    string
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("unrecognized token at byte %d of %q", e.Position, e.Input)
}

func (e *UnrecognizedTokenError) Unwrap() error { return ErrUnrecognizedToken }

// AmbiguityError aggregates every ambiguity found in one analysis pass.
// Build-time and fatal: Compile never returns a partially usable engine
// alongside it.
type AmbiguityError struct {
	Reports []AmbiguityReport
}

func (e *AmbiguityError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d ambiguous rule pair(s)", len(e.Reports))
	for _, r := range e.Reports {
		fmt.Fprintf(&sb, "; rules %d and %d overlap", r.RuleA, r.RuleB)
	}
	return sb.String()
}

func (e *AmbiguityError) Unwrap() error { return ErrAmbiguousRules }

// InvalidRuleError reports a structurally invalid rule, such as an empty
// tokens list. The loader rejects these before compilation; Compile guards
// against them as well.
type InvalidRuleError struct {
	Index  int
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule %d: %s", e.Index, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }
