// Package ports defines the interfaces (contracts) that adapters must implement,
// plus the record types shared between the loader, the store, and the engine.
// These are the boundaries of the hexagonal architecture. Engine logic depends
// only on these types, never on concrete adapters.
package ports

// Rule is one transliteration rule. Tokens is the only segment that is always
// consumed by a match; the four context fields are optional ordered windows
// checked around it. Cost orders rules: lower cost = more specific = tried
// first. A zero Cost means "derive from the constraint token count" — derived
// costs are always positive.
type Rule struct {
	Production  string   `json:"production"`
	PrevClasses []string `json:"prev_classes,omitempty"`
	PrevTokens  []string `json:"prev_tokens,omitempty"`
	Tokens      []string `json:"tokens"`
	NextTokens  []string `json:"next_tokens,omitempty"`
	NextClasses []string `json:"next_classes,omitempty"`
	Cost        float64  `json:"cost,omitempty"`
}

// OnMatchRule inserts extra production text between two matches when the
// token classes on either side of the match boundary line up.
type OnMatchRule struct {
	PrevClasses []string `json:"prev_classes"`
	NextClasses []string `json:"next_classes"`
	Production  string   `json:"production"`
}

// Whitespace configures the tokenizer's sentinel and consolidation behavior.
type Whitespace struct {
	Default     string `json:"default"`
	TokenClass  string `json:"token_class"`
	Consolidate bool   `json:"consolidate"`
}

// Spec is a complete, structured transliterator definition: the processed
// form of an easy-reading YAML document, and the unit persisted by the
// rule-set store. Tokens maps each declared token to its classes.
type Spec struct {
	Tokens       map[string][]string `json:"tokens"`
	Rules        []Rule              `json:"rules"`
	OnMatchRules []OnMatchRule       `json:"onmatch_rules,omitempty"`
	Whitespace   Whitespace          `json:"whitespace"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
}

// TokenList returns the declared token strings in unspecified order.
func (s *Spec) TokenList() []string {
	out := make([]string, 0, len(s.Tokens))
	for tok := range s.Tokens {
		out = append(out, tok)
	}
	return out
}
