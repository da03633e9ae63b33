// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wa-formatter/pkg/types"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(types.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "drafts.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreSaveListLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Save(ctx, "zeta", "<i>z</i>"))
	require.NoError(t, s.Save(ctx, "alpha", "<b>a</b>"))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "alpha.json", entries[0].FileName)
	assert.Equal(t, "zeta", entries[1].Name)
	assert.True(t, fixed.Equal(entries[0].UpdatedAt))
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	html, err := s.Load(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "<b>a</b>", html)
}

func TestSQLiteStoreOverwriteKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Save(ctx, "promo", "v1"))
	before, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, s.Save(ctx, " promo ", "v2"))
	after, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)

	html, err := s.Load(ctx, after[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", html)
}

func TestSQLiteStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	assert.ErrorIs(t, s.Save(ctx, "  ", "x"), ErrEmptyName)

	_, err := s.Load(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.db.Exec(`INSERT INTO drafts (id, file_name, document, updated_at) VALUES ('bad', 'bad.json', '{oops', '')`)
	require.NoError(t, err)
	_, err = s.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrMalformedDraft)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].UpdatedAt.IsZero())
}

func TestSQLiteStoreEmpty(t *testing.T) {
	entries, err := newTestSQLite(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
