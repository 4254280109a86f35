// Package yamlrules loads transliterator definitions written in the
// easy-reading YAML authoring format and turns them into structured
// ports.Spec records. Rule keys use a compact mini-grammar:
//
//	<class> token          class context before the matched tokens
//	(t1 t2) token          specific tokens before the matched tokens
//	(<class> t1) token     both, classes first
//	token (t1 <class>)     tokens then classes after the match
//	token <class>          class context after the match
//
// Onmatch keys pair class lists around a plus sign: "<c1> <c2> + <c3>".
//
// Rule order in the document is preserved: equal-cost rules tie-break by
// authored order during compilation.
package yamlrules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/translit/internal/ports"
)

type whitespaceDoc struct {
	Default     string `yaml:"default"`
	TokenClass  string `yaml:"token_class"`
	Consolidate bool   `yaml:"consolidate"`
}

// document is the raw easy-reading YAML shape. Rules stays a yaml.Node so
// the mapping's authored order survives decoding.
type document struct {
	Tokens       map[string][]string `yaml:"tokens"`
	Rules        yaml.Node           `yaml:"rules"`
	OnMatchRules []map[string]string `yaml:"onmatch_rules"`
	Whitespace   *whitespaceDoc      `yaml:"whitespace"`
	Metadata     map[string]string   `yaml:"metadata"`
}

// Load parses an easy-reading YAML document, processes the rule-key
// mini-grammar, and validates the result.
func Load(data []byte) (*ports.Spec, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules document: %w", err)
	}

	if doc.Whitespace == nil {
		return nil, &ValidationError{Problems: []string{"missing whitespace block"}}
	}

	spec := &ports.Spec{
		Tokens: doc.Tokens,
		Whitespace: ports.Whitespace{
			Default:     doc.Whitespace.Default,
			TokenClass:  doc.Whitespace.TokenClass,
			Consolidate: doc.Whitespace.Consolidate,
		},
		Metadata: doc.Metadata,
	}

	rules, err := processRules(&doc.Rules)
	if err != nil {
		return nil, err
	}
	spec.Rules = rules

	onmatch, err := processOnMatchRules(doc.OnMatchRules)
	if err != nil {
		return nil, err
	}
	spec.OnMatchRules = onmatch

	if err := Validate(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// LoadFile reads and loads an easy-reading YAML file.
func LoadFile(path string) (*ports.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Load(data)
}

// processRules walks the rules mapping node in document order. Each entry
// maps an easy-reading rule key to its production.
func processRules(node *yaml.Node) ([]ports.Rule, error) {
	if node.Kind == 0 {
		return nil, &ValidationError{Problems: []string{"missing rules block"}}
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ValidationError{Problems: []string{"rules block is not a mapping"}}
	}

	rules := make([]ports.Rule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		production := node.Content[i+1].Value
		rule, err := parseRuleKey(key)
		if err != nil {
			return nil, err
		}
		rule.Production = production
		rules = append(rules, rule)
	}
	return rules, nil
}

func isClassField(field string) bool {
	return len(field) > 2 && strings.HasPrefix(field, "<") && strings.HasSuffix(field, ">")
}

func className(field string) string {
	return field[1 : len(field)-1]
}

// parseRuleKey splits an easy-reading rule key into its five segments.
// A key of only spaces denotes the single space token.
func parseRuleKey(key string) (ports.Rule, error) {
	var rule ports.Rule

	if strings.TrimSpace(key) == "" {
		if key == "" {
			return rule, &ValidationError{Problems: []string{"empty rule key"}}
		}
		rule.Tokens = []string{" "}
		return rule, nil
	}

	bad := func(reason string) (ports.Rule, error) {
		return rule, &ValidationError{Problems: []string{fmt.Sprintf("rule key %q: %s", key, reason)}}
	}

	s := strings.TrimSpace(key)

	// Previous context: parenthesized classes-then-tokens, or bare classes.
	if strings.HasPrefix(s, "(") {
		closeIdx := strings.Index(s, ")")
		if closeIdx < 0 {
			return bad("unclosed previous-context group")
		}
		fields := strings.Fields(s[1:closeIdx])
		if len(fields) == 0 {
			return bad("empty previous-context group")
		}
		inTokens := false
		for _, f := range fields {
			if isClassField(f) && !inTokens {
				rule.PrevClasses = append(rule.PrevClasses, className(f))
			} else {
				inTokens = true
				rule.PrevTokens = append(rule.PrevTokens, f)
			}
		}
		if len(rule.PrevTokens) == 0 {
			return bad("previous-context group has no tokens")
		}
		s = strings.TrimSpace(s[closeIdx+1:])
	} else {
		for {
			rest := strings.TrimSpace(s)
			end := strings.Index(rest, "> ")
			if !strings.HasPrefix(rest, "<") || end < 0 {
				break
			}
			rule.PrevClasses = append(rule.PrevClasses, rest[1:end])
			s = rest[end+2:]
		}
	}

	// Following context: parenthesized tokens-then-classes, or bare classes.
	if strings.HasSuffix(s, ")") {
		open := strings.LastIndex(s, "(")
		if open < 0 {
			return bad("unopened following-context group")
		}
		fields := strings.Fields(s[open+1 : len(s)-1])
		if len(fields) == 0 {
			return bad("empty following-context group")
		}
		inClasses := false
		for _, f := range fields {
			if isClassField(f) {
				inClasses = true
				rule.NextClasses = append(rule.NextClasses, className(f))
			} else {
				if inClasses {
					return bad("token after class in following-context group")
				}
				rule.NextTokens = append(rule.NextTokens, f)
			}
		}
		if len(rule.NextTokens) == 0 {
			return bad("following-context group has no tokens")
		}
		s = strings.TrimSpace(s[:open])
	} else {
		for {
			rest := strings.TrimSpace(s)
			start := strings.LastIndex(rest, " <")
			if !strings.HasSuffix(rest, ">") || start < 0 {
				break
			}
			rule.NextClasses = append([]string{rest[start+2 : len(rest)-1]}, rule.NextClasses...)
			s = rest[:start]
		}
	}

	rule.Tokens = strings.Fields(s)
	if len(rule.Tokens) == 0 {
		return bad("no matched tokens")
	}
	return rule, nil
}

var onmatchClassRe = regexp.MustCompile(`<([^+<>\s]+)>`)

// processOnMatchRules parses onmatch entries, each a single-pair mapping
// from "<prev classes> + <next classes>" to the inserted production.
func processOnMatchRules(items []map[string]string) ([]ports.OnMatchRule, error) {
	if len(items) == 0 {
		return nil, nil
	}
	rules := make([]ports.OnMatchRule, 0, len(items))
	for _, item := range items {
		if len(item) != 1 {
			return nil, &ValidationError{Problems: []string{fmt.Sprintf("onmatch rule has %d entries, want 1", len(item))}}
		}
		for key, production := range item {
			plus := strings.Index(key, "+")
			if plus < 0 {
				return nil, &ValidationError{Problems: []string{fmt.Sprintf("onmatch key %q: missing +", key)}}
			}
			prev := matchClasses(key[:plus])
			next := matchClasses(key[plus+1:])
			if len(prev) == 0 || len(next) == 0 {
				return nil, &ValidationError{Problems: []string{fmt.Sprintf("onmatch key %q: classes required on both sides", key)}}
			}
			rules = append(rules, ports.OnMatchRule{
				PrevClasses: prev,
				NextClasses: next,
				Production:  production,
			})
		}
	}
	return rules, nil
}

func matchClasses(s string) []string {
	var out []string
	for _, m := range onmatchClassRe.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
