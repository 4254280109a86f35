package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/translit/internal/ports"
)

func checkOnly(t *testing.T, spec ports.Spec) []AmbiguityReport {
	t.Helper()
	eng := mustCompile(t, spec, Options{CheckAmbiguity: false})
	return eng.CheckAmbiguity()
}

func TestCheckAmbiguity_OverlappingClasses(t *testing.T) {
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {"class1", "class2"}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "AW", PrevClasses: []string{"class1"}, Tokens: []string{"a"}},
			{Production: "AA", PrevClasses: []string{"class2"}, Tokens: []string{"a"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})

	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].RuleA)
	assert.Equal(t, 1, reports[0].RuleB)
	// Both windows reduce to the token a at every position.
	assert.Equal(t, [][]string{{"a"}, {"a"}}, reports[0].Pattern)
}

func TestCheckAmbiguity_DisjointRulesClean(t *testing.T) {
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {}, "b": {}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "A", Tokens: []string{"a"}},
			{Production: "B", Tokens: []string{"b"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	assert.Empty(t, reports)
}

func TestCheckAmbiguity_DifferentCostsNotCompared(t *testing.T) {
	// A one-token rule and a two-token rule can both match aa, but they sit
	// in different cost groups so matching is deterministic.
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "<A>", Tokens: []string{"a"}},
			{Production: "<AA>", Tokens: []string{"a", "a"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	assert.Empty(t, reports)
}

func TestCheckAmbiguity_ResolvedByCheaperCover(t *testing.T) {
	// The class rules overlap on prev a followed by a, but the cheaper rule
	// wins that exact pattern everywhere: its extra prev slot is a class
	// holding every token, so it covers the padded intersection too.
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{
			"a": {"c1", "c2", "any"},
			"b": {"c2", "any"},
			" ": {"wb", "any"},
		},
		Rules: []ports.Rule{
			{Production: "R0", PrevClasses: []string{"any"}, PrevTokens: []string{"a"}, Tokens: []string{"a"}},
			{Production: "R1", PrevClasses: []string{"c1"}, Tokens: []string{"a"}},
			{Production: "R2", PrevClasses: []string{"c2"}, Tokens: []string{"a"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})
	assert.Empty(t, reports)
}

func TestCheckAmbiguity_CollectsEveryConflict(t *testing.T) {
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {"c1", "c2"}, "b": {"c1", "c2"}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "A1", PrevClasses: []string{"c1"}, Tokens: []string{"a"}},
			{Production: "A2", PrevClasses: []string{"c2"}, Tokens: []string{"a"}},
			{Production: "B1", PrevClasses: []string{"c1"}, Tokens: []string{"b"}},
			{Production: "B2", PrevClasses: []string{"c2"}, Tokens: []string{"b"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})

	// The a pair and the b pair conflict; cross pairs are disjoint on the
	// matched token.
	require.Len(t, reports, 2)
	pairs := [][2]int{
		{reports[0].RuleA, reports[0].RuleB},
		{reports[1].RuleA, reports[1].RuleB},
	}
	assert.Contains(t, pairs, [2]int{0, 1})
	assert.Contains(t, pairs, [2]int{2, 3})
}

func TestCheckAmbiguity_FewerThanTwoRules(t *testing.T) {
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A", Tokens: []string{"a"}}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: true,
		},
	})
	assert.Empty(t, reports)
}

func TestCheckAmbiguity_PatternExpandsClasses(t *testing.T) {
	reports := checkOnly(t, ports.Spec{
		Tokens: map[string][]string{"a": {"c1"}, "b": {"c1"}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "X", PrevClasses: []string{"c1"}, Tokens: []string{"a"}},
			{Production: "Y", PrevClasses: []string{"c1"}, Tokens: []string{"a"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	})

	require.Len(t, reports, 1)
	// The shared prev slot carries the whole class, sorted.
	assert.Equal(t, [][]string{{"a", "b"}, {"a"}}, reports[0].Pattern)
}
