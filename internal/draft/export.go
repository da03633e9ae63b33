// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wa-formatter/pkg/types"
)

// ExportFormat selects the serialization used by Export.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ExportFile is the document written by Export.
type ExportFile struct {
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Drafts     []types.Draft `json:"drafts" yaml:"drafts"`

	// Skipped lists stored files that were not exported: files without
	// the draft suffix and documents that are not valid draft JSON.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Collect loads every listed draft together with its translated text.
// Files that are not drafts (no DraftSuffix, or malformed JSON) are skipped
// and their file names returned.
func Collect(ctx context.Context, s Store) ([]types.Draft, []string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	drafts := make([]types.Draft, 0, len(entries))
	var skipped []string
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		if !strings.HasSuffix(e.FileName, types.DraftSuffix) {
			skipped = append(skipped, e.FileName)
			continue
		}
		d, err := load(ctx, s, e)
		if errors.Is(err, ErrMalformedDraft) {
			skipped = append(skipped, e.FileName)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, skipped, nil
}

// Export writes every draft, with its rich text and WhatsApp text, to w.
// It returns the number of drafts written. The format is checked before
// the store is read.
func Export(ctx context.Context, s Store, w io.Writer, format ExportFormat) (int, error) {
	switch format {
	case ExportYAML, ExportJSON, "":
	default:
		return 0, fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	drafts, skipped, err := Collect(ctx, s)
	if err != nil {
		return 0, err
	}
	file := ExportFile{ExportedAt: time.Now().UTC(), Drafts: drafts, Skipped: skipped}

	if format == ExportJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(file); err != nil {
			return 0, fmt.Errorf("writing JSON export: %w", err)
		}
		return len(drafts), nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return 0, fmt.Errorf("writing YAML export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("writing YAML export: %w", err)
	}
	return len(drafts), nil
}
