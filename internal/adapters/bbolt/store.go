// Package bbolt implements the ports.RuleSetStore interface using bbolt
// (embedded B+ tree). Each rule set gets its own top-level bucket holding
// a binary-encoded token table and a gob-encoded settings blob. Writes are
// transactional — a crash mid-write cannot corrupt committed rule sets.
package bbolt

import (
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/translit/internal/ports"
)

// Bucket keys
var (
	keyTokens   = []byte("tokens")
	keySettings = []byte("settings")
)

// Store implements ports.RuleSetStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRuleSet persists a spec under name, overwriting any prior version.
func (s *Store) SaveRuleSet(name string, spec *ports.Spec) error {
	if spec == nil {
		return fmt.Errorf("nil spec")
	}

	tokensBlob, err := encodeTokenTable(spec.Tokens)
	if err != nil {
		return fmt.Errorf("encode token table: %w", err)
	}
	settingsBlob, err := encodeSettings(spec)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		if err := b.Put(keyTokens, tokensBlob); err != nil {
			return err
		}
		return b.Put(keySettings, settingsBlob)
	})
}

// LoadRuleSet retrieves a spec by name. Returns nil, nil if absent.
func (s *Store) LoadRuleSet(name string) (*ports.Spec, error) {
	var tokensBlob, settingsBlob []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		if v := b.Get(keyTokens); v != nil {
			tokensBlob = append([]byte(nil), v...)
		}
		if v := b.Get(keySettings); v != nil {
			settingsBlob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tokensBlob == nil && settingsBlob == nil {
		return nil, nil
	}

	tokens, err := decodeTokenTable(tokensBlob)
	if err != nil {
		return nil, fmt.Errorf("decode token table: %w", err)
	}
	spec, err := decodeSettings(settingsBlob)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	spec.Tokens = tokens
	return spec, nil
}

// ListRuleSets returns the names of all stored rule sets, sorted.
func (s *Store) ListRuleSets() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DeleteRuleSet removes a stored rule set. Idempotent.
func (s *Store) DeleteRuleSet(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}
