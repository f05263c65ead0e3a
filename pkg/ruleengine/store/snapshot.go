package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// SnapshotVersion is the current snapshot format version.
// Increment when making breaking changes to the snapshot layout.
const SnapshotVersion = 1

// ErrSnapshotVersion indicates a snapshot written by an incompatible version.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot is an exported rule set.
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Rules      []Rule    `json:"rules"`
}

// WriteSnapshot writes rules to w as zstd-compressed JSON.
func WriteSnapshot(w io.Writer, rules []Rule) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Rules:      rules,
	}
	if snap.Rules == nil {
		snap.Rules = []Rule{}
	}

	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	var snap Snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}
	return &snap, nil
}

// Export writes every rule in s to w.
func Export(s Store, w io.Writer) (int, error) {
	rules, err := s.List()
	if err != nil {
		return 0, err
	}
	if err := WriteSnapshot(w, rules); err != nil {
		return 0, err
	}
	return len(rules), nil
}

// Import saves the snapshot's rules read from r into s. Rules whose name is
// already taken are skipped. It returns the number of rules imported.
func Import(s Store, r io.Reader) (int, error) {
	snap, err := ReadSnapshot(r)
	if err != nil {
		return 0, err
	}
	return ImportSnapshot(s, snap)
}

// ImportSnapshot saves the rules of an already decoded snapshot into s,
// skipping names that are taken and filling in a missing ID or fingerprint.
func ImportSnapshot(s Store, snap *Snapshot) (int, error) {
	imported := 0
	for _, rule := range snap.Rules {
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		if rule.Fingerprint == 0 {
			rule.Fingerprint = Fingerprint(rule.Text)
		}
		err := s.Save(rule)
		if errors.Is(err, ErrNameExists) {
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("import rule %s: %w", rule.Name, err)
		}
		imported++
	}
	return imported, nil
}
