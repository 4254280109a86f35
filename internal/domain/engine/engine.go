// Package engine implements the graph-based transliteration core: rule
// compilation into a shared-prefix tree, best-first matching under context
// constraints, static ambiguity analysis, and the maximal-munch tokenizer
// with its driving loop.
//
// A compiled Engine is immutable and safe for concurrent use. All per-call
// state — position, traversal stack, output, matched-rule trace — lives on
// the call, never on the engine.
package engine

import (
	"strings"

	"github.com/corey/translit/internal/ports"
)

// Options controls compilation behavior.
type Options struct {
	// CheckAmbiguity runs the static ambiguity analysis during Compile and
	// fails with *AmbiguityError when any equal-cost overlap is unresolved.
	CheckAmbiguity bool

	// IgnoreErrors makes tokenization skip unrecognized input and
	// transliteration skip positions with no matching rule, instead of
	// failing the call.
	IgnoreErrors bool
}

// DefaultOptions enables ambiguity checking and strict error handling.
func DefaultOptions() Options {
	return Options{CheckAmbiguity: true}
}

// Engine is a compiled transliterator: cost-sorted rules, the shared-prefix
// rule tree, the onmatch lookup, and the token scanner.
type Engine struct {
	rules         []ports.Rule
	onmatchRules  []ports.OnMatchRule
	whitespace    ports.Whitespace
	metadata      map[string]string
	tokenClasses  map[string]tokenSet // token -> its classes
	tokensByClass map[string]tokenSet // class -> member tokens
	allTokens     tokenSet
	graph         *ruleGraph
	onmatchLookup map[string]map[string][]int // current token -> previous token -> onmatch rule indices
	scanner       ports.TokenScanner
	ignoreErrors  bool
	opts          Options
	source        ports.Spec // as supplied, for PrunedOf
}

// Result is the outcome of one transliteration call.
type Result struct {
	// Output is the concatenated productions, including onmatch insertions.
	Output string
	// Matched lists the matched rule indices in match order, indexing Rules().
	Matched []int
	// Tokens is the input tokenization, whitespace sentinels included.
	Tokens []string
}

// Compile builds an engine from a structured spec and a scanner compiled
// over the same declared tokens. Build-time failures (*InvalidRuleError,
// *AmbiguityError) never yield a partially usable engine.
func Compile(spec ports.Spec, scanner ports.TokenScanner, opts Options) (*Engine, error) {
	for i, r := range spec.Rules {
		if len(r.Tokens) == 0 {
			return nil, &InvalidRuleError{Index: i, Reason: "empty tokens list"}
		}
	}

	e := &Engine{
		rules:         normalizeRules(spec.Rules),
		onmatchRules:  spec.OnMatchRules,
		whitespace:    spec.Whitespace,
		metadata:      spec.Metadata,
		tokenClasses:  make(map[string]tokenSet, len(spec.Tokens)),
		tokensByClass: make(map[string]tokenSet),
		allTokens:     make(tokenSet, len(spec.Tokens)),
		scanner:       scanner,
		ignoreErrors:  opts.IgnoreErrors,
		opts:          opts,
		source:        spec,
	}

	for token, classes := range spec.Tokens {
		e.allTokens[token] = struct{}{}
		set := make(tokenSet, len(classes))
		for _, class := range classes {
			set[class] = struct{}{}
			members := e.tokensByClass[class]
			if members == nil {
				members = make(tokenSet)
				e.tokensByClass[class] = members
			}
			members[token] = struct{}{}
		}
		e.tokenClasses[token] = set
	}

	if opts.CheckAmbiguity {
		if reports := e.CheckAmbiguity(); len(reports) > 0 {
			return nil, &AmbiguityError{Reports: reports}
		}
	}

	e.graph = buildGraph(e.rules)
	e.onmatchLookup = onmatchLookup(spec.Tokens, spec.OnMatchRules)

	return e, nil
}

// onmatchLookup precomputes, for each (current token, previous token) pair,
// the onmatch rules whose boundary classes could apply there: the current
// token must carry the rule's first next-class and the previous token its
// last prev-class. Saves rescanning every onmatch rule per output position.
func onmatchLookup(tokens map[string][]string, rules []ports.OnMatchRule) map[string]map[string][]int {
	lookup := make(map[string]map[string][]int)
	for ruleIndex, rule := range rules {
		for token, classes := range tokens {
			if !containsClass(classes, rule.NextClasses[0]) {
				continue
			}
			for prevToken, prevClasses := range tokens {
				if !containsClass(prevClasses, rule.PrevClasses[len(rule.PrevClasses)-1]) {
					continue
				}
				byPrev := lookup[token]
				if byPrev == nil {
					byPrev = make(map[string][]int)
					lookup[token] = byPrev
				}
				byPrev[prevToken] = append(byPrev[prevToken], ruleIndex)
			}
		}
	}
	return lookup
}

func containsClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// Transliterate converts input and returns the output string alone.
func (e *Engine) Transliterate(input string) (string, error) {
	result, err := e.TransliterateTrace(input)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

// TransliterateTrace converts input in a single left-to-right consuming
// pass: at each position the least costly matching rule is applied, any
// applicable onmatch production is inserted before the rule's own, and the
// position advances past the consumed tokens. In strict mode a position
// with no matching rule fails with *NoMatchError; with IgnoreErrors the
// engine advances one token and continues.
func (e *Engine) TransliterateTrace(input string) (Result, error) {
	tokens, err := e.Tokenize(input)
	if err != nil {
		return Result{}, err
	}

	var out strings.Builder
	var matched []int

	pos := 1 // skip the leading whitespace sentinel
	for pos < len(tokens)-1 {
		ruleIndex, ok := e.MatchAt(pos, tokens)
		if !ok {
			if e.ignoreErrors {
				pos++
				continue
			}
			return Result{}, &NoMatchError{Position: pos, Token: tokens[pos]}
		}
		matched = append(matched, ruleIndex)
		rule := e.rules[ruleIndex]

		if len(e.onmatchLookup) > 0 {
			for _, onmatchIndex := range e.onmatchLookup[tokens[pos]][tokens[pos-1]] {
				om := e.onmatchRules[onmatchIndex]
				if e.matchWindow(pos-len(om.PrevClasses), om.PrevClasses, tokens, checkPrev, byClass) &&
					e.matchWindow(pos, om.NextClasses, tokens, checkNext, byClass) {
					out.WriteString(om.Production)
					break // only the best onmatch rule fires
				}
			}
		}

		out.WriteString(rule.Production)
		pos += len(rule.Tokens)
	}

	return Result{Output: out.String(), Matched: matched, Tokens: tokens}, nil
}

// PrunedOf builds a new engine from the original spec minus every rule
// whose production is listed. The receiver is not modified.
func (e *Engine) PrunedOf(productions ...string) (*Engine, error) {
	excluded := make(map[string]struct{}, len(productions))
	for _, p := range productions {
		excluded[p] = struct{}{}
	}

	spec := e.source
	kept := make([]ports.Rule, 0, len(spec.Rules))
	for _, r := range spec.Rules {
		if _, ok := excluded[r.Production]; !ok {
			kept = append(kept, r)
		}
	}
	spec.Rules = kept
	return Compile(spec, e.scanner, e.opts)
}

// Rules returns the cost-sorted rules with derived costs filled in.
func (e *Engine) Rules() []ports.Rule { return e.rules }

// Productions returns each rule's production, in rule order.
func (e *Engine) Productions() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Production
	}
	return out
}

// OnMatchRules returns the onmatch rules as supplied.
func (e *Engine) OnMatchRules() []ports.OnMatchRule { return e.onmatchRules }

// Whitespace returns the whitespace configuration.
func (e *Engine) Whitespace() ports.Whitespace { return e.whitespace }

// Metadata returns the free-form metadata block carried by the spec.
func (e *Engine) Metadata() map[string]string { return e.metadata }
