package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Options struct {
	Accounts   []AccountConfig
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Server is the development lobby server: HTTP login plus the websocket
// lobby hub.
type Server struct {
	accounts *Accounts
	registry *Registry
	hub      *Hub
	mux      *http.ServeMux
	http     *http.Server
}

func NewServer(opts Options) (*Server, error) {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 72 * time.Hour
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 180 * 24 * time.Hour
	}
	accounts, err := NewAccounts(opts.Accounts)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}

	s := &Server{
		accounts: accounts,
		registry: NewRegistry(opts.AccessTTL, opts.RefreshTTL),
		hub:      NewHub(),
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/login", Login(s.accounts, s.registry))
	s.mux.HandleFunc("POST /refresh/token", RefreshToken(s.registry))
	s.mux.HandleFunc("GET /ws/{token}", LobbySocket(s.registry, s.hub))
	s.mux.HandleFunc("GET /health", Health(s.hub))
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Registry() *Registry { return s.registry }

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[lobbyd] starting on %s (%d accounts)", addr, s.accounts.Len())
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes lobby connections, stops the HTTP server and the token
// registry.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()
	s.registry.Stop()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
