// Package server provides the HTTP REST API for the resume optimizer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// RunStore persists and reads back runs. *db.DB implements it.
type RunStore interface {
	pipeline.Store
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	GetResult(ctx context.Context, runID uuid.UUID) (*types.RunResult, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	pipeline   pipeline.Options
	scorer     *scoring.Scorer
	store      RunStore
	limiter    *ratelimit.Limiter
	log        *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port int
	// Pipeline is the base run configuration; requests override the format
	// and job description.
	Pipeline pipeline.Options
	// Store is optional. Without it runs are not persisted and GET /runs/{id}
	// answers 503.
	Store  RunStore
	Logger *zap.Logger
	// RateLimit applies per-client limits; the zero value disables them
	RateLimit ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	log := logger.OrNop(cfg.Logger)

	base := cfg.Pipeline
	base.Logger = log
	if cfg.Store != nil {
		base.Store = cfg.Store
	}
	base.OnProgress = nil

	// Building a runner validates the optimizer and scoring settings up front
	runner, err := pipeline.NewRunner(base)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	s := &Server{
		pipeline: base,
		scorer:   runner.Scorer(),
		store:    cfg.Store,
		limiter:  ratelimit.NewLimiter(cfg.RateLimit),
		log:      log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for LLM-backed runs
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with logging and CORS middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /profiles/{role}", s.handleProfile)
	mux.HandleFunc("POST /optimize", s.handleOptimize)
	mux.HandleFunc("POST /optimize/stream", s.handleOptimizeStream)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)

	return s.withLogging(s.withCORS(s.withRateLimit(mux)))
}

// Close releases the rate limiter
func (s *Server) Close() {
	s.limiter.Stop()
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's limit with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIP(r)
		allowed, info := s.limiter.Allow(clientID, r.Method, r.URL.Path)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		retry := int(info.RetryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		s.log.Warn("rate limit exceeded",
			zap.String("client", clientID),
			zap.String("path", r.URL.Path),
			zap.Int("limit", info.Limit))
		s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
			"error":       "rate limit exceeded",
			"retry_after": retry,
		})
	})
}

// clientIP keys rate limits by the remote address without its port
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
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
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
