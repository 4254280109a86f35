package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey/translit/internal/ports"
)

func TestCostOf(t *testing.T) {
	// log2(1 + 1/(1 + tokenCount))
	assert.InDelta(t, 0.5849625, costOf(ports.Rule{Tokens: []string{"a"}}), 1e-6)
	assert.InDelta(t, 0.4150375, costOf(ports.Rule{Tokens: []string{"a", "a"}}), 1e-6)

	// Context tokens and classes all count.
	constrained := ports.Rule{
		PrevClasses: []string{"c"},
		PrevTokens:  []string{"a"},
		Tokens:      []string{"a"},
		NextTokens:  []string{"a"},
		NextClasses: []string{"c"},
	}
	assert.Equal(t, 5, tokenCount(constrained))
	assert.InDelta(t, 0.2223924, costOf(constrained), 1e-6)
}

func TestNormalizeRules_SortsByCostStably(t *testing.T) {
	rules := []ports.Rule{
		{Production: "first", Tokens: []string{"a"}},
		{Production: "long", Tokens: []string{"a", "a"}},
		{Production: "second", Tokens: []string{"b"}},
	}
	out := normalizeRules(rules)

	assert.Equal(t, "long", out[0].Production)
	// Equal cost keeps authored order.
	assert.Equal(t, "first", out[1].Production)
	assert.Equal(t, "second", out[2].Production)

	// Input untouched.
	assert.Zero(t, rules[0].Cost)
	assert.Equal(t, "first", rules[0].Production)
}

func TestNormalizeRules_KeepsExplicitCost(t *testing.T) {
	rules := []ports.Rule{
		{Production: "cheap", Tokens: []string{"a"}, Cost: 0.01},
		{Production: "derived", Tokens: []string{"a", "a"}},
	}
	out := normalizeRules(rules)

	assert.Equal(t, "cheap", out[0].Production)
	assert.Equal(t, 0.01, out[0].Cost)
	assert.InDelta(t, 0.4150375, out[1].Cost, 1e-6)
}

func TestRuleString(t *testing.T) {
	cases := []struct {
		name string
		rule ports.Rule
		want string
	}{
		{"bare", ports.Rule{Tokens: []string{"a", "b"}}, "a b"},
		{"prev class", ports.Rule{PrevClasses: []string{"wb"}, Tokens: []string{"a"}}, "<wb> a"},
		{"prev tokens", ports.Rule{PrevTokens: []string{"x"}, Tokens: []string{"a"}}, "(x) a"},
		{
			"prev class and tokens",
			ports.Rule{PrevClasses: []string{"wb"}, PrevTokens: []string{"x"}, Tokens: []string{"a"}},
			"(<wb> x) a",
		},
		{"next class", ports.Rule{Tokens: []string{"a"}, NextClasses: []string{"vowel"}}, "a <vowel>"},
		{"next tokens", ports.Rule{Tokens: []string{"a"}, NextTokens: []string{"y"}}, "a (y)"},
		{
			"next tokens and class",
			ports.Rule{Tokens: []string{"a"}, NextTokens: []string{"y"}, NextClasses: []string{"vowel"}},
			"a (y <vowel>)",
		},
		{
			"fully constrained",
			ports.Rule{
				PrevClasses: []string{"class2"},
				PrevTokens:  []string{"a"},
				Tokens:      []string{"a"},
				NextTokens:  []string{"a"},
				NextClasses: []string{"class2"},
			},
			"(<class2> a) a (a <class2>)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RuleString(tc.rule))
		})
	}
}
