package store_test

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rules.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save(store.NewRule("Rule_1", "department = 'Sales'")))
	require.NoError(t, store1.Close())

	// Reopen the database
	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	rule, err := store2.Load("Rule_1")
	require.NoError(t, err)
	assert.Equal(t, "department = 'Sales'", rule.Text)
	assert.Equal(t, store.Fingerprint("department = 'Sales'"), rule.Fingerprint)
}

func TestSQLiteStore_LargeFingerprintRoundTrip(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	rule := store.NewRule("big", "x = 1")
	rule.Fingerprint = 1<<63 + 12345
	require.NoError(t, s.Save(rule))

	loaded, err := s.Load("big")
	require.NoError(t, err)
	assert.Equal(t, rule.Fingerprint, loaded.Fingerprint)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/rules.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
