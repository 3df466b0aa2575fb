package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notemap/snapshot"
	"notemap/store"
)

const keyPrefix = "share/"

// Server hosts shared documents. Posted documents are validated, stored
// under a fresh id and served back read-only.
type Server struct {
	router    chi.Router
	store     store.Store
	log       *zap.Logger
	maxBytes  int64
	publicURL string
	linkBase  string
}

type ServerOption func(*Server)

func WithServerLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPublicURL sets the externally visible root of the server. Without it
// URLs are derived from each request.
func WithPublicURL(u string) ServerOption {
	return func(s *Server) { s.publicURL = strings.TrimSuffix(u, "/") }
}

// WithLinkBase sets the viewer URL that share links point at.
func WithLinkBase(base string) ServerOption {
	return func(s *Server) { s.linkBase = base }
}

// WithMaxBytes caps the size of posted documents.
func WithMaxBytes(n int64) ServerOption {
	return func(s *Server) { s.maxBytes = n }
}

// NewServer creates a Server with all routes configured.
func NewServer(st store.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:    st,
		log:      zap.NewNop(),
		maxBytes: 4 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/docs", s.handleCreate)
	r.Get("/docs/{id}", s.handleGet)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("share server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// CreateResponse is returned by POST /docs.
type CreateResponse struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Link string `json:"link,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "document too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	env, err := snapshot.Decode(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	// Store the normalized envelope, not the posted bytes.
	data, err := snapshot.Encode(snapshot.Wrap(env.Data), false)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "encode failed"})
		return
	}

	id := uuid.New().String()
	if err := s.store.Save(r.Context(), keyPrefix+id, data); err != nil {
		s.log.Error("failed to store shared document", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failed"})
		return
	}

	resp := CreateResponse{ID: id, URL: s.docURL(r, id)}
	if s.linkBase != "" {
		if link, err := Link(s.linkBase, resp.URL); err == nil {
			resp.Link = link
		}
	}
	s.log.Info("document shared", zap.String("id", id), zap.Int("nodes", len(env.Data.Nodes)))
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	data, err := s.store.Load(r.Context(), keyPrefix+id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if err != nil {
		s.log.Error("failed to load shared document", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	// Viewers on other origins fetch these directly.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) docURL(r *http.Request, id string) string {
	root := s.publicURL
	if root == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		root = scheme + "://" + r.Host
	}
	return root + "/docs/" + id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
