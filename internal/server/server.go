package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Config carries the server's injected collaborators and tunables. Stores are
// interfaces so tests can substitute in-memory fakes.
type Config struct {
	Addr string // e.g. ":8080"

	Records  RecordStore
	Sessions SessionStore
	Storage  *LocalStorage

	SessionTTL     time.Duration // default 24h
	MaxUploadBytes int64         // 0 = no limit
}

func (cfg Config) sessionTTL() time.Duration {
	if cfg.SessionTTL <= 0 {
		return 24 * time.Hour
	}
	return cfg.SessionTTL
}

type Server struct {
	httpServer *http.Server
}

// New builds the route table and middleware chain around cfg.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", cfg.statusHandler)
	mux.HandleFunc("GET /stats", cfg.statsHandler)
	mux.HandleFunc("GET /metrics", metricsHandler)

	mux.HandleFunc("POST /users", cfg.postUsersHandler)
	mux.HandleFunc("GET /users/me", cfg.getMeHandler)
	mux.HandleFunc("GET /connect", cfg.connectHandler)
	mux.HandleFunc("GET /disconnect", cfg.disconnectHandler)

	mux.HandleFunc("POST /files", cfg.postUploadHandler)
	mux.HandleFunc("GET /files", cfg.getIndexHandler)
	mux.HandleFunc("GET /files/{id}", cfg.getShowHandler)
	mux.HandleFunc("GET /files/{id}/data", cfg.getDataHandler)
	mux.HandleFunc("PUT /files/{id}/publish", cfg.setPublicHandler(true))
	mux.HandleFunc("PUT /files/{id}/unpublish", cfg.setPublicHandler(false))

	// Wrap middleware: requestID -> logging -> security headers -> rate limit -> mux
	limiter := newRateLimiter(300, time.Minute)
	var handler http.Handler = mux
	handler = limiter.middleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: s}
}

// Handler exposes the composed handler for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
