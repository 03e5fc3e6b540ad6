package leaderboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "leaderboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLiteStore(context.Background(), db, "teststore")
	require.NoError(t, err)
	return s
}

func TestSQLiteStoreReadEmpty(t *testing.T) {
	s := setupTestSQLiteStore(t)

	records, err := s.Load(context.Background(), "Easy")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestSQLiteStore(t)

	list := sampleList()
	require.NoError(t, s.Persist(ctx, "Hard", list))

	loaded, err := s.Load(ctx, "Hard")
	require.NoError(t, err)
	assert.Equal(t, list, loaded)

	_, shorter := Insert(nil, list[0])
	require.NoError(t, s.Persist(ctx, "Hard", shorter))
	loaded, err = s.Load(ctx, "Hard")
	require.NoError(t, err)
	assert.Equal(t, shorter, loaded)
}

func TestSQLiteStoreCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := setupTestSQLiteStore(t)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO "teststore" (key, value) VALUES (?, ?);`,
		"Medium", []byte("not gob"),
	)
	require.NoError(t, err)

	_, err = s.Load(ctx, "Medium")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSQLiteStoreBadTableName(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLiteStore(context.Background(), db, `x"; DROP TABLE y; --`)
	assert.ErrorIs(t, err, ErrBadName)
}
