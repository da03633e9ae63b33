// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wa-formatter/internal/draft"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

// memStore is an in-memory draft.Store keyed by file name.
type memStore struct {
	docs map[string]string
	err  error
}

func newMemStore() *memStore { return &memStore{docs: map[string]string{}} }

func (m *memStore) List(ctx context.Context) ([]types.DraftEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []types.DraftEntry
	for file := range m.docs {
		out = append(out, types.DraftEntry{ID: file, Name: draft.DisplayName(file), FileName: file})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) Save(ctx context.Context, name, html string) error {
	if m.err != nil {
		return m.err
	}
	name, err := draft.CleanName(name)
	if err != nil {
		return err
	}
	m.docs[draft.FileName(name)] = html
	return nil
}

func (m *memStore) Load(ctx context.Context, id string) (string, error) {
	html, ok := m.docs[id]
	if !ok {
		return "", draft.ErrNotFound
	}
	return html, nil
}

func (m *memStore) Close() error { return nil }

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := New(newMemStore(), types.ServeConfig{Token: "secret"}, nil).Router()
	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNoEditorPage(t *testing.T) {
	h := New(newMemStore(), types.ServeConfig{}, nil).Router()
	rec := do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranslate(t *testing.T) {
	h := New(newMemStore(), types.ServeConfig{}, nil).Router()

	rec := do(t, h, http.MethodPost, "/v1/translate", `{"html":"<p>Hello <b>world</b></p>"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello *world*", resp.Text)

	rec = do(t, h, http.MethodPost, "/v1/translate", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/translate", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDraftLifecycle(t *testing.T) {
	h := New(newMemStore(), types.ServeConfig{}, nil).Router()

	rec := do(t, h, http.MethodGet, "/v1/drafts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/v1/drafts/promo", `{"html":"<i>sale</i>"}`, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/drafts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []types.DraftEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "promo", entries[0].Name)

	rec = do(t, h, http.MethodGet, "/v1/drafts/promo", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, DraftResponse{Name: "promo", HTML: "<i>sale</i>", Text: "_sale_"}, d)

	rec = do(t, h, http.MethodGet, "/v1/drafts/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/drafts/%20", `{"html":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("drive unreachable")
	h := New(store, types.ServeConfig{}, nil).Router()

	rec := do(t, h, http.MethodGet, "/v1/drafts", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unreachable")
}

func TestAuth(t *testing.T) {
	h := New(newMemStore(), types.ServeConfig{Token: "secret"}, nil).Router()

	rec := do(t, h, http.MethodPost, "/v1/translate", `{"html":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/translate", `{"html":"x"}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/translate", `{"html":"x"}`, "secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}
