package ports

// RuleSetStore persists validated transliterator specs under a name, so a
// rule set can be packed once and reloaded without re-parsing the authoring
// format. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveRuleSet must be transactional. A crash mid-write must
// not corrupt previously committed rule sets.
type RuleSetStore interface {
	// SaveRuleSet persists a spec, overwriting any prior spec of that name.
	SaveRuleSet(name string, spec *Spec) error

	// LoadRuleSet retrieves a spec by name.
	// Returns nil, nil if no rule set of that name exists.
	LoadRuleSet(name string) (*Spec, error)

	// ListRuleSets returns the names of all stored rule sets, sorted.
	ListRuleSets() ([]string, error)

	// DeleteRuleSet removes a stored rule set.
	// Idempotent: deleting a nonexistent name is not an error.
	DeleteRuleSet(name string) error

	// Close releases the underlying storage.
	Close() error
}
