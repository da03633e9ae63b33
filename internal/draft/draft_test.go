// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wa-formatter/pkg/types"
)

func TestFileNameAndDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		display string
	}{
		{"promo", "promo.json", "promo"},
		{"weekly update", "weekly update.json", "weekly update"},
		{"notes.json", "notes.json.json", "notes.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.file, FileName(tt.name))
			assert.Equal(t, tt.display, DisplayName(tt.file))
		})
	}
	assert.Equal(t, "readme.txt", DisplayName("readme.txt"))
}

func TestCleanName(t *testing.T) {
	got, err := CleanName("  promo  ")
	require.NoError(t, err)
	assert.Equal(t, "promo", got)

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := CleanName(in)
		assert.ErrorIs(t, err, ErrEmptyName, "input %q", in)
	}
}

func TestDocumentCodec(t *testing.T) {
	data, err := EncodeDocument("<b>Hi</b> & <i>bye</i>")
	require.NoError(t, err)
	assert.JSONEq(t, `{"html":"<b>Hi</b> & <i>bye</i>"}`, string(data))

	html, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "<b>Hi</b> & <i>bye</i>", html)

	html, err = DecodeDocument([]byte(`{"other": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "", html)

	_, err = DecodeDocument([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMalformedDraft)
}

func TestResolveAndOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	require.NoError(t, s.Save(ctx, "promo", "<p><strong>Promo</strong> today</p>"))
	require.NoError(t, s.Save(ctx, "other", "<em>x</em>"))

	entry, err := Resolve(ctx, s, " promo ")
	require.NoError(t, err)
	assert.Equal(t, "promo", entry.Name)
	assert.Equal(t, "promo.json", entry.FileName)

	d, err := Open(ctx, s, "promo")
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Promo</strong> today</p>", d.HTML)
	assert.Equal(t, "*Promo* today", d.WhatsApp)
	assert.Equal(t, entry, d.Entry)

	_, err = Open(ctx, s, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Resolve(ctx, s, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, types.Config{
		Backend: types.BackendSQLite,
		SQLite:  types.SQLiteConfig{Path: filepath.Join(t.TempDir(), "drafts.db")},
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = NewStore(ctx, types.Config{Backend: types.BackendDrive})
	assert.ErrorIs(t, err, ErrNoFolder)

	_, err = NewStore(ctx, types.Config{Backend: "s3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported draft backend")
}
