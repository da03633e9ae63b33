// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func seedExportStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	s := newTestSQLite(t)
	require.NoError(t, s.Save(ctx, "promo", "<p><b>Sale</b> now</p>"))
	require.NoError(t, s.Save(ctx, "code", "<code>x := 1</code>"))
	return s
}

func TestExportYAML(t *testing.T) {
	s := seedExportStore(t)
	var buf bytes.Buffer

	n, err := Export(context.Background(), s, &buf, ExportYAML)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got ExportFile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Drafts, 2)
	assert.Equal(t, "code", got.Drafts[0].Entry.Name)
	assert.Equal(t, "```x := 1```", got.Drafts[0].WhatsApp)
	assert.Equal(t, "promo", got.Drafts[1].Entry.Name)
	assert.Equal(t, "<p><b>Sale</b> now</p>", got.Drafts[1].HTML)
	assert.Equal(t, "*Sale* now", got.Drafts[1].WhatsApp)
	assert.False(t, got.ExportedAt.IsZero())
}

func TestExportJSON(t *testing.T) {
	s := seedExportStore(t)
	var buf bytes.Buffer

	n, err := Export(context.Background(), s, &buf, ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got ExportFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Drafts, 2)
	assert.Equal(t, "promo.json", got.Drafts[1].Entry.FileName)
}

func TestExportUnsupportedFormat(t *testing.T) {
	s, fake := newTestDrive(t)
	fake.add("promo.json", testFolder, `{"html":"<b>x</b>"}`)

	_, err := Export(context.Background(), s, &bytes.Buffer{}, "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Empty(t, fake.requests, "format must be rejected before the store is read")
}

func TestExportSkipsFilesThatAreNotDrafts(t *testing.T) {
	s, fake := newTestDrive(t)
	fake.add("promo.json", testFolder, `{"html":"<p>Hello <b>world</b></p>"}`)
	fake.add("notes.txt", testFolder, "plain notes, not json")
	fake.add("broken.json", testFolder, "{not json")

	var buf bytes.Buffer
	n, err := Export(context.Background(), s, &buf, ExportYAML)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got ExportFile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Drafts, 1)
	assert.Equal(t, "promo", got.Drafts[0].Entry.Name)
	assert.Equal(t, "Hello *world*", got.Drafts[0].WhatsApp)
	assert.ElementsMatch(t, []string{"notes.txt", "broken.json"}, got.Skipped)
}

func TestCollectCancelled(t *testing.T) {
	s := seedExportStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Collect(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}
