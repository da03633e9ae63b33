// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/pdiddy/wa-formatter/internal/httputil"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

// Drive v3 endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	driveAPIBase    = "https://www.googleapis.com/drive/v3"
	driveUploadBase = "https://www.googleapis.com/upload/drive/v3"
)

const (
	driveScope       = "https://www.googleapis.com/auth/drive"
	driveListFields  = "nextPageToken,files(id,name,modifiedTime)"
	drivePageSize    = "100"
	defaultUserAgent = "wa-formatter/0.1"
	defaultTimeout   = 30 * time.Second
)

// ErrNoFolder is returned when the Drive backend has no folder configured.
var ErrNoFolder = errors.New("drive folder id is not configured")

// DriveStore keeps drafts as JSON files inside one Google Drive folder.
type DriveStore struct {
	client     *http.Client
	folderID   string
	userAgent  string
	maxRetries int
}

// NewDriveStore authenticates with the service-account key from cfg
// (CredentialsJSON, or the file at CredentialsFile) and returns a store
// bound to cfg.FolderID.
func NewDriveStore(ctx context.Context, cfg types.DriveConfig) (*DriveStore, error) {
	if cfg.FolderID == "" {
		return nil, ErrNoFolder
	}

	key := cfg.CredentialsJSON
	if len(key) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("drive credentials missing: set drive.credentials_file or the gdrive-service-account secret")
		}
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading drive credentials: %w", err)
		}
		key = data
	}

	jwt, err := google.JWTConfigFromJSON(key, driveScope)
	if err != nil {
		return nil, fmt.Errorf("parsing drive credentials: %w", err)
	}
	client := jwt.Client(ctx)
	client.Timeout = cfg.Timeout
	if client.Timeout == 0 {
		client.Timeout = defaultTimeout
	}

	return NewDriveStoreWithClient(client, cfg)
}

// NewDriveStoreWithClient returns a store that issues requests through an
// already authenticated client.
func NewDriveStoreWithClient(client *http.Client, cfg types.DriveConfig) (*DriveStore, error) {
	if cfg.FolderID == "" {
		return nil, ErrNoFolder
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &DriveStore{
		client:     client,
		folderID:   cfg.FolderID,
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// driveFile is the subset of Drive file metadata the store reads.
type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

type driveListResponse struct {
	NextPageToken string      `json:"nextPageToken"`
	Files         []driveFile `json:"files"`
}

type driveErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// List returns every non-trashed file in the folder, following pagination.
func (d *DriveStore) List(ctx context.Context) ([]types.DraftEntry, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(d.folderID))

	var entries []types.DraftEntry
	pageToken := ""
	for {
		params := url.Values{
			"q":        {q},
			"spaces":   {"drive"},
			"fields":   {driveListFields},
			"pageSize": {drivePageSize},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := d.do(ctx, http.MethodGet, driveAPIBase+"/files?"+params.Encode(), nil, "")
		if err != nil {
			return nil, fmt.Errorf("listing drafts: %w", err)
		}

		var page driveListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing drive file list: %w", err)
		}
		for _, f := range page.Files {
			e := types.DraftEntry{
				ID:       f.ID,
				Name:     DisplayName(f.Name),
				FileName: f.Name,
			}
			if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
				e.UpdatedAt = t
			}
			entries = append(entries, e)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	sortEntries(entries)
	return entries, nil
}

// Save uploads the draft document. An existing file with the same name is
// updated in place; otherwise a new file is created in the folder.
func (d *DriveStore) Save(ctx context.Context, name, html string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	doc, err := EncodeDocument(html)
	if err != nil {
		return err
	}

	existing, err := Resolve(ctx, d, name)
	switch {
	case err == nil:
		u := driveUploadBase + "/files/" + url.PathEscape(existing.ID) + "?uploadType=media"
		if _, err := d.do(ctx, http.MethodPatch, u, doc, "application/json"); err != nil {
			return fmt.Errorf("updating draft %s: %w", name, err)
		}
		return nil
	case errors.Is(err, ErrNotFound):
	default:
		return err
	}

	body, contentType, err := multipartUpload(FileName(name), d.folderID, doc)
	if err != nil {
		return err
	}
	if _, err := d.do(ctx, http.MethodPost, driveUploadBase+"/files?uploadType=multipart", body, contentType); err != nil {
		return fmt.Errorf("creating draft %s: %w", name, err)
	}
	return nil
}

// Load downloads the file content and returns its html field.
func (d *DriveStore) Load(ctx context.Context, id string) (string, error) {
	u := driveAPIBase + "/files/" + url.PathEscape(id) + "?alt=media"
	body, err := d.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return "", err
	}
	return DecodeDocument(body)
}

// Close is a no-op; the HTTP client holds no resources that need release.
func (d *DriveStore) Close() error { return nil }

// do sends a request with retry on throttling and returns the response
// body for 2xx statuses. A 404 maps to ErrNotFound.
func (d *DriveStore) do(ctx context.Context, method, u string, payload []byte, contentType string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := httputil.DoWithRetry(ctx, d.client, req, d.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("drive request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading drive response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr driveErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("drive API returned HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("drive API returned HTTP %d", resp.StatusCode)
	}
	return data, nil
}

// multipartUpload builds a multipart/related body carrying file metadata
// followed by the JSON document.
func multipartUpload(fileName, folderID string, doc []byte) ([]byte, string, error) {
	meta, err := json.Marshal(map[string]any{
		"name":     fileName,
		"parents":  []string{folderID},
		"mimeType": "application/json",
	})
	if err != nil {
		return nil, "", fmt.Errorf("encoding file metadata: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range [][]byte{meta, doc} {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", "application/json; charset=UTF-8")
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("building upload body: %w", err)
		}
		if _, err := w.Write(part); err != nil {
			return nil, "", fmt.Errorf("building upload body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("building upload body: %w", err)
	}
	return buf.Bytes(), "multipart/related; boundary=" + mw.Boundary(), nil
}

// escapeQuery escapes a value for use inside a single-quoted Drive query
// string literal.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
