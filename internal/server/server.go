// Package server exposes maze generation over HTTP.
//
// Routes:
//
//	GET /healthz          liveness probe, returns "ok"
//	GET /version          build information as JSON
//	GET /maze.{format}    generate and render a maze (png, svg, txt, json, dot, tree, ...)
//	GET /history          recent generation runs, newest first (?limit=N)
//	GET /history/{id}     one generation run
//
// Query parameters for /maze.{format}: width, height, seed, resolution,
// scale, background, wall, accent, no_origin_mark, no_deepest_mark, verify,
// refresh.
// Colors may omit the leading '#'. Omitted parameters fall back to the
// server defaults.
//
// Invalid parameters are answered with 400 and a JSON body
// {"error": "...", "code": "INVALID_..."}.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/labyrinth/pkg/archive"
	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// Response headers set on /maze.{format}.
const (
	HeaderID      = "X-Labyrinth-Id"
	HeaderSeed    = "X-Labyrinth-Seed"
	HeaderDeepest = "X-Labyrinth-Deepest"
	HeaderCache   = "X-Labyrinth-Cache"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Defaults fill in omitted query parameters.
	Defaults pipeline.Options

	// MaxCells caps width*height per request. Zero means errors.MaxCells.
	MaxCells int

	Logger *log.Logger
}

// Server serves mazes over HTTP.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	maxCells int
	logger   *log.Logger
	router   chi.Router
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxCells <= 0 {
		opts.MaxCells = errors.MaxCells
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, nil, opts.Logger)
	}

	s := &Server{
		runner:   opts.Runner,
		defaults: opts.Defaults,
		maxCells: opts.MaxCells,
		logger:   opts.Logger.WithPrefix("http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/maze.{format}", s.handleMaze)
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleHistory)
		r.Get("/{id}", s.handleRecord)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":   buildinfo.Version,
		"generator": buildinfo.Generator(),
		"commit":    buildinfo.Commit,
		"date":      buildinfo.Date,
	})
}

func (s *Server) handleMaze(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.parseOptions(r, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.MazeHit && result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	deepest := result.Maze.Deepest()

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(format))
	h.Set(HeaderSeed, strconv.FormatUint(result.Seed, 10))
	h.Set(HeaderDeepest, fmt.Sprintf("%d,%d", deepest.Row, deepest.Col))
	h.Set(HeaderCache, cacheStatus)
	if result.ID != "" {
		h.Set(HeaderID, result.ID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := s.runner.Archive.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []archive.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.runner.Archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Request Parsing
// =============================================================================

// parseOptions builds pipeline options from the server defaults and the
// request's query parameters.
func (s *Server) parseOptions(r *http.Request, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}

	opts := s.defaults
	opts.Formats = []string{format}
	opts.MaxCells = s.maxCells
	opts.Origin = "http"
	opts.Logger = s.logger

	q := r.URL.Query()
	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"resolution", &opts.Resolution},
		{"scale", &opts.Scale},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = seed
	}

	colors := []struct {
		name string
		dst  *string
	}{
		{"background", &opts.Background},
		{"wall", &opts.Wall},
		{"accent", &opts.Accent},
	}
	for _, p := range colors {
		if v := q.Get(p.name); v != "" {
			if !strings.HasPrefix(v, "#") {
				v = "#" + v
			}
			*p.dst = v
		}
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"no_origin_mark", &opts.NoOriginMark},
		{"no_deepest_mark", &opts.NoDeepestMark},
		{"verify", &opts.Verify},
		{"refresh", &opts.Refresh},
	}
	for _, p := range flags {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", p.name, v)
		}
		*p.dst = b
	}

	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
