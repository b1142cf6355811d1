// Package api exposes the JSON read interface over the crawled graph.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/metrics"
)

// Catalog is the read surface the handlers need from the store.
type Catalog interface {
	AllShows(ctx context.Context) ([]crawler.ShowRecord, error)
	AllWriters(ctx context.Context) ([]crawler.WriterRecord, error)
	AllLinks(ctx context.Context) ([]crawler.LinkRecord, error)
	OverlapReport(ctx context.Context) ([]crawler.Overlap, error)
	CountShows(ctx context.Context) (int, error)
	CountWriters(ctx context.Context) (int, error)
}

// Server wires HTTP handlers to the catalog.
type Server struct {
	router  chi.Router
	catalog Catalog
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(catalog Catalog, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/shows", s.listShows)
		r.Get("/writers", s.listWriters)
		r.Get("/links", s.listLinks)
		r.Get("/overlaps", s.listOverlaps)
		r.Get("/all", s.fullGraph)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.catalog.CountShows(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) listShows(w http.ResponseWriter, r *http.Request) {
	shows, err := s.catalog.AllShows(r.Context())
	if err != nil {
		s.serveFailure(w, "list shows", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shows": emptyIfNil(shows)})
}

func (s *Server) listWriters(w http.ResponseWriter, r *http.Request) {
	writers, err := s.catalog.AllWriters(r.Context())
	if err != nil {
		s.serveFailure(w, "list writers", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"writers": emptyIfNil(writers)})
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.catalog.AllLinks(r.Context())
	if err != nil {
		s.serveFailure(w, "list links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": emptyIfNil(links)})
}

func (s *Server) listOverlaps(w http.ResponseWriter, r *http.Request) {
	overlaps, err := s.catalog.OverlapReport(r.Context())
	if err != nil {
		s.serveFailure(w, "overlap report", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overlaps": emptyIfNil(overlaps)})
}

// fullGraph returns the whole bipartite graph in one payload, plus row
// counts, for clients that render it in a single pass.
func (s *Server) fullGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shows, err := s.catalog.AllShows(ctx)
	if err != nil {
		s.serveFailure(w, "list shows", err)
		return
	}
	writers, err := s.catalog.AllWriters(ctx)
	if err != nil {
		s.serveFailure(w, "list writers", err)
		return
	}
	links, err := s.catalog.AllLinks(ctx)
	if err != nil {
		s.serveFailure(w, "list links", err)
		return
	}
	overlaps, err := s.catalog.OverlapReport(ctx)
	if err != nil {
		s.serveFailure(w, "overlap report", err)
		return
	}
	showCount, err := s.catalog.CountShows(ctx)
	if err != nil {
		s.serveFailure(w, "count shows", err)
		return
	}
	writerCount, err := s.catalog.CountWriters(ctx)
	if err != nil {
		s.serveFailure(w, "count writers", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shows":        emptyIfNil(shows),
		"writers":      emptyIfNil(writers),
		"links":        emptyIfNil(links),
		"overlaps":     emptyIfNil(overlaps),
		"show_count":   showCount,
		"writer_count": writerCount,
	})
}

func (s *Server) serveFailure(w http.ResponseWriter, op string, err error) {
	s.logger.Error("query failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows any origin. The API is read-only and serves a
// static frontend hosted elsewhere.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
