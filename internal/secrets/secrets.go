// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: gdrive-service-account (a service-account JSON key),
// gdrive-folder-id, serve-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/wa-formatter/pkg/types"
)

const (
	KeyDriveServiceAccount = "gdrive-service-account"
	KeyDriveFolderID       = "gdrive-folder-id"
	KeyServeToken          = "serve-token"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills fields of cfg that are still empty from loaded secrets.
// Values already set through configuration or flags win.
func Apply(cfg *types.Config, s map[string]string) {
	if len(cfg.Drive.CredentialsJSON) == 0 && cfg.Drive.CredentialsFile == "" {
		if v, ok := s[KeyDriveServiceAccount]; ok {
			cfg.Drive.CredentialsJSON = []byte(v)
		}
	}
	if cfg.Drive.FolderID == "" {
		cfg.Drive.FolderID = s[KeyDriveFolderID]
	}
	if cfg.Serve.Token == "" {
		cfg.Serve.Token = s[KeyServeToken]
	}
}
