// Package server provides the local HTTP API consumed by the browser editor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/notify"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies, backups included.
const maxBodyBytes = 10 << 20

// shutdownTimeout bounds the graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	exports     *export.Service
	registry    *rendering.Registry
	broadcaster *notify.Broadcaster
	metrics     *metrics.Metrics
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	handler     http.Handler
}

// Options holds the collaborators of a Server. Store and Exports are required.
type Options struct {
	Addr    string
	Store   *store.Store
	Exports *export.Service
	// Registry resolves skins for the template list and inline-edit checks.
	Registry *rendering.Registry
	// Broadcaster feeds notifications to /api/events; nil disables them.
	Broadcaster *notify.Broadcaster
	Metrics     *metrics.Metrics
	// RateLimit nil uses ratelimit.DefaultConfig.
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Exports == nil {
		return nil, errors.New("server needs a store and an export service")
	}

	s := &Server{
		store:       opts.Store,
		exports:     opts.Exports,
		registry:    opts.Registry,
		broadcaster: opts.Broadcaster,
		metrics:     opts.Metrics,
		logger:      logging.OrNop(opts.Logger),
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
	}
	if s.registry == nil {
		s.registry = rendering.MustDefault()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Document
	mux.HandleFunc("GET /api/document", s.handleGetDocument)
	mux.HandleFunc("PUT /api/document", s.handleReplaceDocument)
	mux.HandleFunc("POST /api/document/import", s.handleImport)
	mux.HandleFunc("POST /api/document/reset", s.handleReset)
	mux.HandleFunc("PATCH /api/personal", s.handlePatchPersonal)
	mux.HandleFunc("PUT /api/personal/{field}", s.handleInlineEdit)
	mux.HandleFunc("PUT /api/photo", s.handleSetPhoto)
	mux.HandleFunc("DELETE /api/photo", s.handleClearPhoto)
	mux.HandleFunc("PUT /api/references-on-request", s.handleReferencesOnRequest)

	// Repeated sections
	mux.HandleFunc("POST /api/sections/{section}", s.handleAddItem)
	mux.HandleFunc("PUT /api/sections/{section}/{index}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/sections/{section}/{index}", s.handleRemoveItem)

	// Saved CVs
	mux.HandleFunc("GET /api/saved", s.handleListSaved)
	mux.HandleFunc("POST /api/saved", s.handleSaveAsNew)
	mux.HandleFunc("GET /api/saved/{id}", s.handleGetSaved)
	mux.HandleFunc("PUT /api/saved/{id}", s.handleUpdateSaved)
	mux.HandleFunc("POST /api/saved/{id}/load", s.handleLoadSaved)
	mux.HandleFunc("DELETE /api/saved/{id}", s.handleDeleteSaved)

	// Preferences and templates
	mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
	mux.HandleFunc("PATCH /api/preferences", s.handlePatchPreferences)
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)

	// Rendering
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("GET /preview/pages", s.handlePreviewPages)
	mux.HandleFunc("GET /print", s.handlePrint)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	// Exports
	mux.HandleFunc("GET /export/json", s.handleExport(export.FormatJSON))
	mux.HandleFunc("GET /export/docx", s.handleExport(export.FormatDOCX))
	mux.HandleFunc("GET /export/pdf", s.handleExport(export.FormatPDF))
	mux.HandleFunc("GET /api/prompt", s.handlePrompt)

	s.handler = middleware.RequestID(
		middleware.Recover(s.logger)(
			s.withLogging(s.withCORS(s.withRateLimit(s.metrics.Middleware(mux))))))

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// PDF printing can take a while; the event stream clears its own deadline.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.HeaderRequestID)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(r.Context())))
	})
}

// withRateLimit rejects clients that exceed the per-route limits.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	s.logger.Warn("rate limit exceeded", zap.Int("limit", info.Limit))
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"limit":       info.Limit,
		"retry_after": retryAfter,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// readBody reads a request body up to maxBodyBytes.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: "unreadable request body"}
	}
	if len(data) > maxBodyBytes {
		return nil, &ErrValidation{Field: "body", Message: "request body too large"}
	}
	return data, nil
}

// decodeJSON reads the body into dst.
func decodeJSON(r *http.Request, dst any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body"}
	}
	return nil
}

// loggingWriter records the status code for the access log.
type loggingWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *loggingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
