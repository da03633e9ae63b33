// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the translator and the draft store as a JSON API.
// It serves no editor page; clients post rich text and read back the
// WhatsApp text.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/wa-formatter/internal/draft"
	"github.com/pdiddy/wa-formatter/internal/markup"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

// maxBodyBytes bounds request bodies; editor documents are small.
const maxBodyBytes = 1 << 20

// Server serves translation and draft endpoints backed by a draft.Store.
type Server struct {
	store  draft.Store
	token  string
	logger *slog.Logger
}

// New returns a server. A nil logger discards log output.
func New(store draft.Store, cfg types.ServeConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{store: store, token: strings.TrimSpace(cfg.Token), logger: logger}
}

// TranslateRequest carries editor rich text.
type TranslateRequest struct {
	HTML string `json:"html"`
}

// TranslateResponse carries the WhatsApp text.
type TranslateResponse struct {
	Text string `json:"text"`
}

// DraftResponse is returned when a draft is fetched by name.
type DraftResponse struct {
	Name string `json:"name"`
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /v1/translate", s.auth(s.handleTranslate))
	mux.HandleFunc("GET /v1/drafts", s.auth(s.handleList))
	mux.HandleFunc("GET /v1/drafts/{name}", s.auth(s.handleGet))
	mux.HandleFunc("PUT /v1/drafts/{name}", s.auth(s.handleSave))
	return s.logRequests(mux)
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != s.token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, TranslateResponse{Text: markup.Translate(req.HTML)})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, "list", err)
		return
	}
	if entries == nil {
		entries = []types.DraftEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := draft.Open(r.Context(), s.store, r.PathValue("name"))
	if err != nil {
		s.storeError(w, "load", err)
		return
	}
	writeJSON(w, http.StatusOK, DraftResponse{Name: d.Entry.Name, HTML: d.HTML, Text: d.WhatsApp})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name := r.PathValue("name")
	if err := s.store.Save(r.Context(), name, req.HTML); err != nil {
		s.storeError(w, "save", err)
		return
	}
	s.logger.Info("draft saved", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps draft store errors onto HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, draft.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, draft.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("draft store failed", "op", op, "err", err)
		writeError(w, http.StatusBadGateway, "draft store unavailable")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
