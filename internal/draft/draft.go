// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft persists named rich-text drafts and retrieves them for
// translation. A draft is stored as a small JSON document ({"html": ...})
// under the file name <name>.json, either in a Google Drive folder or in a
// local SQLite database.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/wa-formatter/internal/markup"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

var (
	// ErrEmptyName is returned when a draft name is empty or only whitespace.
	ErrEmptyName = errors.New("draft name is empty")

	// ErrNotFound is returned when no draft matches a name or identifier.
	ErrNotFound = errors.New("draft not found")

	// ErrMalformedDraft is returned when a stored document is not valid JSON.
	ErrMalformedDraft = errors.New("malformed draft document")
)

// Store is a keyed collection of named drafts.
type Store interface {
	// List returns every stored draft, sorted by name.
	List(ctx context.Context) ([]types.DraftEntry, error)

	// Save creates the draft called name, or overwrites it when a draft
	// with the same file name already exists.
	Save(ctx context.Context, name, html string) error

	// Load returns the rich text of the draft with the given identifier.
	Load(ctx context.Context, id string) (string, error)

	// Close releases resources held by the backend.
	Close() error
}

// NewStore opens the backend selected by cfg.Backend.
func NewStore(ctx context.Context, cfg types.Config) (Store, error) {
	switch cfg.Backend {
	case types.BackendDrive:
		return NewDriveStore(ctx, cfg.Drive)
	case types.BackendSQLite, "":
		return NewSQLiteStore(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported draft backend %q: use drive or sqlite", cfg.Backend)
	}
}

// FileName returns the stored file name for a draft name.
func FileName(name string) string {
	return name + types.DraftSuffix
}

// DisplayName strips one trailing DraftSuffix from a stored file name.
func DisplayName(fileName string) string {
	return strings.TrimSuffix(fileName, types.DraftSuffix)
}

// CleanName trims surrounding whitespace from a draft name and rejects
// names that end up empty.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// EncodeDocument marshals rich text into the stored JSON payload.
func EncodeDocument(html string) ([]byte, error) {
	data, err := json.Marshal(types.DraftDocument{HTML: html})
	if err != nil {
		return nil, fmt.Errorf("encoding draft: %w", err)
	}
	return data, nil
}

// DecodeDocument extracts the rich text from a stored JSON payload.
// A payload without an html field yields "".
func DecodeDocument(data []byte) (string, error) {
	var doc types.DraftDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	return doc.HTML, nil
}

// Resolve finds the listed draft whose file name matches name.
func Resolve(ctx context.Context, s Store, name string) (types.DraftEntry, error) {
	name, err := CleanName(name)
	if err != nil {
		return types.DraftEntry{}, err
	}
	entries, err := s.List(ctx)
	if err != nil {
		return types.DraftEntry{}, err
	}
	want := FileName(name)
	for _, e := range entries {
		if e.FileName == want {
			return e, nil
		}
	}
	return types.DraftEntry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Open resolves a draft by name, loads it, and translates it.
func Open(ctx context.Context, s Store, name string) (types.Draft, error) {
	entry, err := Resolve(ctx, s, name)
	if err != nil {
		return types.Draft{}, err
	}
	return load(ctx, s, entry)
}

func load(ctx context.Context, s Store, entry types.DraftEntry) (types.Draft, error) {
	html, err := s.Load(ctx, entry.ID)
	if err != nil {
		return types.Draft{}, fmt.Errorf("loading %s: %w", entry.Name, err)
	}
	return types.Draft{
		Entry:    entry,
		HTML:     html,
		WhatsApp: markup.Translate(html),
	}, nil
}

// sortEntries orders entries by name, then by identifier for stability
// when a folder holds duplicate names.
func sortEntries(entries []types.DraftEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
}
