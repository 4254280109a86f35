package engine

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/translit/internal/ports"
)

// testScanner is a naive maximal-munch scanner for engine tests: longest
// declared token at each position, one-byte skip on no match so gaps show
// up between matches exactly like the production scanner.
type testScanner struct {
	tokens []string // sorted longest first
}

func newTestScanner(declared map[string][]string) *testScanner {
	tokens := make([]string, 0, len(declared))
	for t := range declared {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return &testScanner{tokens: tokens}
}

func (s *testScanner) Scan(text string) []ports.TokenMatch {
	var out []ports.TokenMatch
	pos := 0
	for pos < len(text) {
		matched := false
		for _, t := range s.tokens {
			if strings.HasPrefix(text[pos:], t) {
				out = append(out, ports.TokenMatch{Token: t, Start: pos, End: pos + len(t)})
				pos += len(t)
				matched = true
				break
			}
		}
		if !matched {
			pos++
		}
	}
	return out
}

func mustCompile(t *testing.T, spec ports.Spec, opts Options) *Engine {
	t.Helper()
	eng, err := Compile(spec, newTestScanner(spec.Tokens), opts)
	require.NoError(t, err)
	return eng
}

// classifiedSpec is the worked example from the rule-authoring docs:
// a/b tokens with classes, one heavily constrained rule, one onmatch rule.
func classifiedSpec() ports.Spec {
	return ports.Spec{
		Tokens: map[string][]string{
			"a": {"class1"},
			"b": {"class2"},
			" ": {"wb"},
		},
		Rules: []ports.Rule{
			{Production: "A", Tokens: []string{"a"}},
			{Production: "B", Tokens: []string{"b"}},
			{Production: " ", Tokens: []string{" "}},
			{
				Production:  "A*",
				PrevClasses: []string{"class2"},
				PrevTokens:  []string{"a"},
				Tokens:      []string{"a"},
				NextTokens:  []string{"a"},
				NextClasses: []string{"class2"},
			},
		},
		OnMatchRules: []ports.OnMatchRule{
			{PrevClasses: []string{"class1"}, NextClasses: []string{"class1"}, Production: ","},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: false},
	}
}

func TestTransliterate_ContextAndOnMatch(t *testing.T) {
	eng := mustCompile(t, classifiedSpec(), DefaultOptions())

	out, err := eng.Transliterate("baaab")
	require.NoError(t, err)
	assert.Equal(t, "BA,A*,AB", out)
}

func TestTransliterate_OnMatchInsertsBetweenVowels(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {"vowel"}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "A", Tokens: []string{"a"}},
			{Production: " ", Tokens: []string{" "}},
		},
		OnMatchRules: []ports.OnMatchRule{
			{PrevClasses: []string{"vowel"}, NextClasses: []string{"vowel"}, Production: ","},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: false},
	}
	eng := mustCompile(t, spec, DefaultOptions())

	out, err := eng.Transliterate("aa")
	require.NoError(t, err)
	assert.Equal(t, "A,A", out)
}

func TestTransliterate_MaximalMunchPrefersLongerToken(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, "aa": {}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "<A>", Tokens: []string{"a"}},
			{Production: "<AA>", Tokens: []string{"aa"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	}
	eng := mustCompile(t, spec, DefaultOptions())

	out, err := eng.Transliterate("aaa")
	require.NoError(t, err)
	assert.Equal(t, "<AA><A>", out)
}

func TestTransliterate_StrictModeFailsOnUnrecognizedInput(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A", Tokens: []string{"a"}}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: true,
		},
	}
	eng := mustCompile(t, spec, DefaultOptions())

	_, err := eng.Transliterate("a!a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedToken)

	var ute *UnrecognizedTokenError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, 1, ute.Position)
}

func TestTransliterate_IgnoreErrorsSkipsUnrecognizedInput(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A", Tokens: []string{"a"}}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: true,
		},
	}
	eng := mustCompile(t, spec, Options{CheckAmbiguity: true, IgnoreErrors: true})

	out, err := eng.Transliterate("a!a")
	require.NoError(t, err)
	assert.Equal(t, "AA", out)
}

func TestTransliterate_NoMatchingRule(t *testing.T) {
	// The space token is declared and tokenized but no rule produces it.
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A", Tokens: []string{"a"}}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: false,
		},
	}
	eng := mustCompile(t, spec, DefaultOptions())

	_, err := eng.Transliterate("a a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatchingRule)

	// Lenient mode advances one token and keeps going.
	lenient := mustCompile(t, spec, Options{CheckAmbiguity: true, IgnoreErrors: true})
	out, err := lenient.Transliterate("a a")
	require.NoError(t, err)
	assert.Equal(t, "AA", out)
}

func TestTransliterateTrace_ReturnsMatchedRulesAndTokens(t *testing.T) {
	eng := mustCompile(t, classifiedSpec(), DefaultOptions())

	result, err := eng.TransliterateTrace("baaab")
	require.NoError(t, err)

	assert.Equal(t, "BA,A*,AB", result.Output)
	assert.Equal(t, []string{" ", "b", "a", "a", "a", "b", " "}, result.Tokens)

	productions := make([]string, len(result.Matched))
	for i, idx := range result.Matched {
		productions[i] = eng.Rules()[idx].Production
	}
	assert.Equal(t, []string{"B", "A", "A*", "A", "B"}, productions)
}

func TestTransliterate_Deterministic(t *testing.T) {
	eng := mustCompile(t, classifiedSpec(), DefaultOptions())

	first, err := eng.TransliterateTrace("baaab baaab")
	require.NoError(t, err)
	second, err := eng.TransliterateTrace("baaab baaab")
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Matched, second.Matched)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	eng := mustCompile(t, classifiedSpec(), DefaultOptions())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				out, err := eng.Transliterate("baaab")
				if err != nil {
					errs <- err
					return
				}
				if out != "BA,A*,AB" {
					errs <- errors.New("unexpected output " + out)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestCompile_RejectsEmptyTokensList(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A"}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: true,
		},
	}
	_, err := Compile(spec, newTestScanner(spec.Tokens), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestCompile_AmbiguousRulesFail(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {"class1", "class2"}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "AW", PrevClasses: []string{"class1"}, Tokens: []string{"a"}},
			{Production: "AA", PrevClasses: []string{"class2"}, Tokens: []string{"a"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	}

	_, err := Compile(spec, newTestScanner(spec.Tokens), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousRules)

	var ambErr *AmbiguityError
	require.ErrorAs(t, err, &ambErr)
	require.Len(t, ambErr.Reports, 1)

	// Disabling the check compiles the same spec fine.
	_, err = Compile(spec, newTestScanner(spec.Tokens), Options{CheckAmbiguity: false})
	require.NoError(t, err)
}

func TestPrunedOf_RemovesProductions(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, "aa": {}, " ": {"wb"}},
		Rules: []ports.Rule{
			{Production: "<A>", Tokens: []string{"a"}},
			{Production: "<AA>", Tokens: []string{"aa"}},
		},
		Whitespace: ports.Whitespace{Default: " ", TokenClass: "wb", Consolidate: true},
	}
	eng := mustCompile(t, spec, DefaultOptions())
	// Cost-sorted: both rules consume one token, so authored order holds.
	require.Equal(t, []string{"<A>", "<AA>"}, eng.Productions())

	pruned, err := eng.PrunedOf("<AA>")
	require.NoError(t, err)
	assert.Equal(t, []string{"<A>"}, pruned.Productions())

	// The source engine is untouched.
	assert.Equal(t, []string{"<A>", "<AA>"}, eng.Productions())

	out, err := pruned.Transliterate("a")
	require.NoError(t, err)
	assert.Equal(t, "<A>", out)

	// The scanner still emits the aa token, but no rule matches it now.
	_, err = pruned.Transliterate("aa")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatchingRule)
}

func TestPrunedOf_AllProductions(t *testing.T) {
	spec := ports.Spec{
		Tokens: map[string][]string{"a": {}, " ": {"wb"}},
		Rules:  []ports.Rule{{Production: "A", Tokens: []string{"a"}}},
		Whitespace: ports.Whitespace{
			Default: " ", TokenClass: "wb", Consolidate: true,
		},
	}
	eng := mustCompile(t, spec, DefaultOptions())

	pruned, err := eng.PrunedOf("A")
	require.NoError(t, err)
	assert.Empty(t, pruned.Productions())
}

func TestOnMatchLookup_Precomputed(t *testing.T) {
	eng := mustCompile(t, classifiedSpec(), DefaultOptions())

	// Only (a, a) can trigger the <class1>+<class1> rule.
	require.Contains(t, eng.onmatchLookup, "a")
	assert.Equal(t, []int{0}, eng.onmatchLookup["a"]["a"])
	assert.NotContains(t, eng.onmatchLookup["a"], "b")
	assert.NotContains(t, eng.onmatchLookup, "b")
}
