// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DraftBackend selects where drafts are persisted.
type DraftBackend string

const (
	BackendDrive  DraftBackend = "drive"
	BackendSQLite DraftBackend = "sqlite"
)

// HTTPConfig holds shared HTTP settings for backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "wa-formatter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts on rate limiting (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DriveConfig holds settings for the Google Drive draft backend.
type DriveConfig struct {
	HTTPConfig `yaml:",inline"`

	// FolderID is the Drive folder that holds the draft files.
	FolderID string `json:"folder_id" yaml:"folder_id"`

	// CredentialsFile is a path to a service-account JSON key. When empty the
	// key is taken from the gdrive-service-account secret.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`

	// CredentialsJSON is the raw service-account key. It is filled from
	// secrets at startup and never written to config files.
	CredentialsJSON []byte `json:"-" yaml:"-"`
}

// SQLiteConfig holds settings for the local SQLite draft backend.
type SQLiteConfig struct {
	// Path is the database file (default "drafts/drafts.db").
	Path string `json:"path" yaml:"path"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default "127.0.0.1:8080").
	Addr string `json:"addr" yaml:"addr"`

	// Token, when set, is required as a bearer token on /v1/ routes.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// Config groups all settings for the tool.
type Config struct {
	Backend DraftBackend `json:"backend" yaml:"backend"`
	Drive   DriveConfig  `json:"drive" yaml:"drive"`
	SQLite  SQLiteConfig `json:"sqlite" yaml:"sqlite"`
	Serve   ServeConfig  `json:"serve" yaml:"serve"`
}
