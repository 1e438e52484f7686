// Package server implements the vitrail HTTP generation service.
//
// The service exposes a small JSON API: POST /api/generate renders an image
// and stores it under a fresh id, GET /api/images/{id} streams the PNG, and
// GET /api/images/{id}/thumb streams a downscaled thumbnail. Artifacts live
// in the configured cache backend, so a redis-backed deployment shares
// artifacts across instances.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mkling/vitrail/pkg/cache"
	"github.com/mkling/vitrail/pkg/errors"
	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/sink"
	"github.com/mkling/vitrail/pkg/pipeline"
)

const (
	// artifactPrefix namespaces stored images within the cache backend.
	artifactPrefix = "img:"

	// defaultThumbDim bounds thumbnails when the request gives no dim.
	defaultThumbDim = 256

	// maxThumbDim caps user-supplied thumbnail sizes.
	maxThumbDim = 1024
)

// Server wires the generation pipeline to HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  cache.Cache
	logger *log.Logger
}

// New creates a server. The store holds generated artifacts by id; it may be
// the same cache the runner uses for keyed artifacts.
func New(runner *pipeline.Runner, store cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/images/{id}", s.handleImage)
		r.Get("/images/{id}/thumb", s.handleThumb)
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

// generateRequest is the POST /api/generate body. Sentiment may be omitted
// entirely (neutral) or given per dimension.
type generateRequest struct {
	Width     int                    `json:"width,omitempty"`
	Height    int                    `json:"height,omitempty"`
	Seed      uint64                 `json:"seed,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Sentiment *param.SentimentVector `json:"sentiment,omitempty"`
}

// generateResponse describes a stored artifact.
type generateResponse struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Seed    uint64 `json:"seed"`
	Shapes  int    `json:"shapes,omitempty"`
	Regions int    `json:"regions,omitempty"`
	Cached  bool   `json:"cached"`
	URL     string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	opts := pipeline.Options{
		Width:     req.Width,
		Height:    req.Height,
		Seed:      req.Seed,
		Text:      req.Text,
		Sentiment: req.Sentiment,
		Provider:  pipeline.LexiconProvider{},
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Error("generate failed", "err", err)
		writeJSON(w, statusFor(err), errorResponse{Error: errors.UserMessage(err)})
		return
	}

	id := uuid.NewString()
	if err := s.store.Set(r.Context(), artifactPrefix+id, result.PNG, cache.TTLArtifact); err != nil {
		s.logger.Error("store artifact failed", "err", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store artifact"})
		return
	}

	resp := generateResponse{
		ID:     id,
		Width:  errors.ClampDimension(orDefault(req.Width, pipeline.DefaultWidth)),
		Height: errors.ClampDimension(orDefault(req.Height, pipeline.DefaultHeight)),
		Seed:   orDefaultSeed(req.Seed),
		Cached: result.CacheInfo.ArtifactHit,
		URL:    fmt.Sprintf("/api/images/%s", id),
	}
	if result.Scene != nil {
		resp.Shapes = result.Stats.Shapes
		resp.Regions = result.Stats.Regions
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetchArtifact(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	data, ok := s.fetchArtifact(w, r)
	if !ok {
		return
	}

	dim := defaultThumbDim
	if q := r.URL.Query().Get("dim"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 16 || n > maxThumbDim {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("dim must be 16-%d", maxThumbDim)})
			return
		}
		dim = n
	}

	img, err := sink.DecodePNG(data)
	if err != nil {
		s.logger.Error("decode artifact failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "corrupt artifact"})
		return
	}
	thumb, err := sink.EncodePNG(sink.Thumbnail(img, dim))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to encode thumbnail"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(thumb)))
	_, _ = w.Write(thumb)
}

// fetchArtifact loads {id} from the store, handling missing ids.
func (s *Server) fetchArtifact(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid image id"})
		return nil, false
	}
	data, hit, err := s.store.Get(r.Context(), artifactPrefix+id)
	if err != nil {
		s.logger.Error("fetch artifact failed", "err", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load artifact"})
		return nil, false
	}
	if !hit {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "image not found"})
		return nil, false
	}
	return data, true
}

// =============================================================================
// Helpers
// =============================================================================

// logRequests is a chi middleware logging each request through charmbracelet/log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps pipeline error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidDimensions, errors.ErrCodeInvalidTemplate, errors.ErrCodeInvalidSeed, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultSeed(v uint64) uint64 {
	if v == 0 {
		return pipeline.DefaultSeed
	}
	return v
}
