package engine

import (
	"sort"

	"github.com/corey/translit/internal/ports"
)

// AmbiguityReport names two equal-cost rules whose match windows overlap
// with no strictly cheaper rule guaranteed to pre-empt them. Indices point
// into the cost-sorted rule list. Pattern is the position-wise token
// intersection of the two match windows, each position sorted.
type AmbiguityReport struct {
	RuleA   int
	RuleB   int
	Pattern [][]string
}

type tokenSet map[string]struct{}

// CheckAmbiguity analyzes the engine's rules and returns every unresolved
// equal-cost overlap. An empty result means matching is deterministic
// regardless of authored rule order.
func (e *Engine) CheckAmbiguity() []AmbiguityReport {
	return checkAmbiguity(e.rules, e.tokensByClass, e.allTokens)
}

// checkAmbiguity builds, for each rule, a slot vector aligned on
// (prev context | matched tokens | next context): classes expand to their
// member token sets, specific tokens become singletons, and both sides pad
// with the universal token set to the global maximum context widths. Rules
// are grouped by cost; within a group, each pair's position-wise
// intersection is computed. A fully non-empty intersection is an overlap;
// it is resolved only if some strictly cheaper rule's vector covers the
// intersection at every position, since that rule is then guaranteed to
// win first during matching. Reports are collected, never short-circuited.
func checkAmbiguity(rules []ports.Rule, tokensByClass map[string]tokenSet, allTokens tokenSet) []AmbiguityReport {
	if len(rules) < 2 {
		return nil
	}

	prevCounts := make([]int, len(rules))
	currNextCounts := make([]int, len(rules))
	maxPrev, maxCurrNext := 0, 0
	for i, r := range rules {
		prevCounts[i] = len(r.PrevClasses) + len(r.PrevTokens)
		currNextCounts[i] = len(r.Tokens) + len(r.NextTokens) + len(r.NextClasses)
		if prevCounts[i] > maxPrev {
			maxPrev = prevCounts[i]
		}
		if currNextCounts[i] > maxCurrNext {
			maxCurrNext = currNextCounts[i]
		}
	}
	width := maxPrev + maxCurrNext

	singleton := func(token string) tokenSet { return tokenSet{token: {}} }

	matrix := make([][]tokenSet, len(rules))
	for i, r := range rules {
		row := make([]tokenSet, 0, width)
		for k := prevCounts[i]; k < maxPrev; k++ {
			row = append(row, allTokens)
		}
		for _, class := range r.PrevClasses {
			row = append(row, tokensByClass[class])
		}
		for _, token := range r.PrevTokens {
			row = append(row, singleton(token))
		}
		for _, token := range r.Tokens {
			row = append(row, singleton(token))
		}
		for _, token := range r.NextTokens {
			row = append(row, singleton(token))
		}
		for _, class := range r.NextClasses {
			row = append(row, tokensByClass[class])
		}
		for len(row) < width {
			row = append(row, allTokens)
		}
		matrix[i] = row
	}

	intersect := func(i, j int) []tokenSet {
		out := make([]tokenSet, width)
		for k := 0; k < width; k++ {
			inter := make(tokenSet)
			for token := range matrix[i][k] {
				if _, ok := matrix[j][k][token]; ok {
					inter[token] = struct{}{}
				}
			}
			if len(inter) == 0 {
				return nil
			}
			out[k] = inter
		}
		return out
	}

	coveredBy := func(intersection []tokenSet, row []tokenSet) bool {
		for k := range intersection {
			for token := range intersection[k] {
				if _, ok := row[k][token]; !ok {
					return false
				}
			}
		}
		return true
	}

	// Rules are cost-sorted, so the strictly cheaper candidates for rule i
	// are exactly the prefix with a smaller cost.
	coveredByCheaper := func(i int, intersection []tokenSet) bool {
		for r := 0; r < len(rules) && rules[r].Cost < rules[i].Cost; r++ {
			if coveredBy(intersection, matrix[r]) {
				return true
			}
		}
		return false
	}

	var reports []AmbiguityReport
	for start := 0; start < len(rules); {
		end := start + 1
		for end < len(rules) && rules[end].Cost == rules[start].Cost {
			end++
		}
		for i := start; i < end-1; i++ {
			for j := i + 1; j < end; j++ {
				intersection := intersect(i, j)
				if intersection == nil {
					continue
				}
				if coveredByCheaper(i, intersection) {
					continue
				}
				reports = append(reports, AmbiguityReport{
					RuleA:   i,
					RuleB:   j,
					Pattern: sortedPattern(intersection),
				})
			}
		}
		start = end
	}
	return reports
}

func sortedPattern(sets []tokenSet) [][]string {
	out := make([][]string, len(sets))
	for i, set := range sets {
		tokens := make([]string, 0, len(set))
		for token := range set {
			tokens = append(tokens, token)
		}
		sort.Strings(tokens)
		out[i] = tokens
	}
	return out
}
