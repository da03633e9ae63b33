// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DraftSuffix is appended to a draft name to form its stored file name.
const DraftSuffix = ".json"

// DraftEntry identifies one stored draft as returned by a listing.
type DraftEntry struct {
	// ID is the backend identifier used to fetch the document
	// (a Drive file ID or a local UUID).
	ID string `json:"id" yaml:"id"`

	// Name is the human-chosen draft name without DraftSuffix.
	Name string `json:"name" yaml:"name"`

	// FileName is the stored file name (Name + DraftSuffix for drafts
	// saved by this tool).
	FileName string `json:"file_name" yaml:"file_name"`

	// UpdatedAt is the last modification time reported by the backend,
	// zero when unknown.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// DraftDocument is the JSON payload persisted for each draft. It holds the
// editor's rich text, never the translated output.
type DraftDocument struct {
	HTML string `json:"html"`
}

// Draft is a loaded draft: its listing entry, the stored rich text, and the
// WhatsApp text derived from it.
type Draft struct {
	Entry    DraftEntry `json:"entry" yaml:"entry"`
	HTML     string     `json:"html" yaml:"html"`
	WhatsApp string     `json:"whatsapp" yaml:"whatsapp"`
}
