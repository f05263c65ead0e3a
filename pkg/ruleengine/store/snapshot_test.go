package store_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	src := store.NewMemoryStore()
	require.NoError(t, src.Save(store.NewRule("Rule_1", "age > 30")))
	require.NoError(t, src.Save(store.NewRule("Rule_2", "name = 'AND OR'")))

	var buf bytes.Buffer
	n, err := store.Export(src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dst, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer dst.Close()

	n, err = store.Import(dst, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rules, err := dst.List()
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Rule_1", rules[0].Name)
	assert.Equal(t, "name = 'AND OR'", rules[1].Text)

	t.Run("existing names are skipped", func(t *testing.T) {
		n, err := store.Import(dst, bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		count, err := dst.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestWriteSnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, store.WriteSnapshot(&buf, nil))

	snap, err := store.ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, store.SnapshotVersion, snap.Version)
	assert.NotNil(t, snap.Rules)
	assert.Empty(t, snap.Rules)
}

func TestReadSnapshot_VersionMismatch(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"version": 99, "rules": []}`))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = store.ReadSnapshot(&buf)
	assert.ErrorIs(t, err, store.ErrSnapshotVersion)
}

func TestReadSnapshot_Garbage(t *testing.T) {
	_, err := store.ReadSnapshot(bytes.NewReader([]byte("not zstd at all")))
	assert.Error(t, err)
}

func TestImportSnapshot_FillsMissingFields(t *testing.T) {
	dst := store.NewMemoryStore()
	snap := &store.Snapshot{
		Version: store.SnapshotVersion,
		Rules:   []store.Rule{{Name: "Rule_1", Text: "age > 30"}},
	}

	n, err := store.ImportSnapshot(dst, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rule, err := dst.Load("Rule_1")
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, store.Fingerprint("age > 30"), rule.Fingerprint)
}
