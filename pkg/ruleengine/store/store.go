// Package store provides persistent storage for named rules.
package store

import (
	"errors"
	"time"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
)

// Store persists rules under unique names.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a rule. Returns ErrNameExists if the name is taken.
	Save(rule Rule) error

	// Load retrieves a rule by name.
	// Returns ErrNotFound if no rule has that name.
	Load(name string) (Rule, error)

	// List returns all rules in insertion order.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Rule, error)

	// Count returns the number of stored rules.
	Count() (int, error)

	// Delete removes a rule by name.
	// Returns ErrNotFound if no rule has that name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Rule is a stored rule text with its metadata.
type Rule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Text        string    `json:"rule_string"`
	Fingerprint uint64    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRule creates a rule with a fresh ID, the text's fingerprint, and the
// current time.
func NewRule(name, text string) Rule {
	return Rule{
		ID:          uuid.NewString(),
		Name:        name,
		Text:        text,
		Fingerprint: Fingerprint(text),
		CreatedAt:   time.Now().UTC(),
	}
}

// Fixed keys keep fingerprints stable across processes and stores.
const (
	fingerprintK0 = 0x72756c65656e6731
	fingerprintK1 = 0x66696e6765727072
)

// Fingerprint returns a stable 64-bit hash of rule text.
func Fingerprint(text string) uint64 {
	return siphash.Hash(fingerprintK0, fingerprintK1, []byte(text))
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no rule has the requested name.
	ErrNotFound = errors.New("rule not found")

	// ErrNameExists indicates a rule with the same name is already stored.
	ErrNameExists = errors.New("rule name already exists")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("rule store closed")
)
