package yamlrules

import (
	"fmt"
	"strings"

	"github.com/corey/translit/internal/ports"
)

// ValidationError collects every structural problem found in a spec, so
// the author sees all of them in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rules document: %s", strings.Join(e.Problems, "; "))
}

// Validate checks a structured spec for referential integrity: every token
// and class mentioned by rules, onmatch rules, and the whitespace block
// must be declared in the token table, and every rule must consume at
// least one token. Invalid specs never reach compilation.
func Validate(spec *ports.Spec) error {
	var problems []string

	if len(spec.Tokens) == 0 {
		problems = append(problems, "no tokens declared")
	}

	declaredClasses := make(map[string]bool)
	for _, classes := range spec.Tokens {
		for _, c := range classes {
			declaredClasses[c] = true
		}
	}

	tokenDeclared := func(t string) bool {
		_, ok := spec.Tokens[t]
		return ok
	}

	if !tokenDeclared(spec.Whitespace.Default) {
		problems = append(problems, fmt.Sprintf("whitespace default token %q not declared", spec.Whitespace.Default))
	}
	if !declaredClasses[spec.Whitespace.TokenClass] {
		problems = append(problems, fmt.Sprintf("whitespace token class %q not declared", spec.Whitespace.TokenClass))
	}

	for i, rule := range spec.Rules {
		if len(rule.Tokens) == 0 {
			problems = append(problems, fmt.Sprintf("rule %d (%q): empty tokens list", i, rule.Production))
		}
		for _, group := range [][]string{rule.PrevTokens, rule.Tokens, rule.NextTokens} {
			for _, t := range group {
				if !tokenDeclared(t) {
					problems = append(problems, fmt.Sprintf("rule %d (%q): token %q not declared", i, rule.Production, t))
				}
			}
		}
		for _, group := range [][]string{rule.PrevClasses, rule.NextClasses} {
			for _, c := range group {
				if !declaredClasses[c] {
					problems = append(problems, fmt.Sprintf("rule %d (%q): class %q not declared", i, rule.Production, c))
				}
			}
		}
	}

	for i, rule := range spec.OnMatchRules {
		if len(rule.PrevClasses) == 0 || len(rule.NextClasses) == 0 {
			problems = append(problems, fmt.Sprintf("onmatch rule %d: classes required on both sides", i))
		}
		for _, group := range [][]string{rule.PrevClasses, rule.NextClasses} {
			for _, c := range group {
				if !declaredClasses[c] {
					problems = append(problems, fmt.Sprintf("onmatch rule %d: class %q not declared", i, c))
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
