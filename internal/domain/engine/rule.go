package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/corey/translit/internal/ports"
)

// tokenCount is the total number of tokens a rule requires to match:
// the consumed segment plus all four context windows.
func tokenCount(r ports.Rule) int {
	return len(r.PrevClasses) + len(r.PrevTokens) + len(r.Tokens) +
		len(r.NextTokens) + len(r.NextClasses)
}

// costOf derives a rule's cost from its token count. Rules requiring more
// tokens are less costly and tried first.
func costOf(r ports.Rule) float64 {
	return math.Log2(1 + 1/float64(1+tokenCount(r)))
}

// normalizeRules fills derived costs and returns a copy sorted ascending by
// cost. The sort is stable, so equal-cost rules keep their authored order;
// that order fixes tie-breaking in graph compilation and matching.
func normalizeRules(rules []ports.Rule) []ports.Rule {
	out := make([]ports.Rule, len(rules))
	copy(out, rules)
	for i := range out {
		if out[i].Cost == 0 {
			out[i].Cost = costOf(out[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// RuleString renders a rule in the easy-reading authoring form, e.g.
// "(<wb> a) b (c <vowel>)". Used in ambiguity reports and CLI output.
func RuleString(r ports.Rule) string {
	classStr := func(classes []string) string {
		parts := make([]string, len(classes))
		for i, c := range classes {
			parts[i] = "<" + c + ">"
		}
		return strings.Join(parts, " ")
	}

	var sb strings.Builder
	switch {
	case len(r.PrevClasses) > 0 && len(r.PrevTokens) > 0:
		sb.WriteString("(" + classStr(r.PrevClasses) + " " + strings.Join(r.PrevTokens, " ") + ") ")
	case len(r.PrevClasses) > 0:
		sb.WriteString(classStr(r.PrevClasses) + " ")
	case len(r.PrevTokens) > 0:
		sb.WriteString("(" + strings.Join(r.PrevTokens, " ") + ") ")
	}

	sb.WriteString(strings.Join(r.Tokens, " "))

	switch {
	case len(r.NextTokens) > 0 && len(r.NextClasses) > 0:
		sb.WriteString(" (" + strings.Join(r.NextTokens, " ") + " " + classStr(r.NextClasses) + ")")
	case len(r.NextTokens) > 0:
		sb.WriteString(" (" + strings.Join(r.NextTokens, " ") + ")")
	case len(r.NextClasses) > 0:
		sb.WriteString(" " + classStr(r.NextClasses))
	}
	return sb.String()
}
