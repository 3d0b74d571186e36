// Package api provides HTTP handlers and the main API server logic for BookFlow.
//
// It exposes RESTful endpoints for driving booking conversations, inspecting
// conversation state, and listing recorded turns and delivery receipts, plus
// the inbound Twilio webhook.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTreeMap/BookFlow/internal/flow"
	"github.com/BTreeMap/BookFlow/internal/messaging"
	"github.com/BTreeMap/BookFlow/internal/store"
)

// Server configuration defaults.
const (
	// DefaultAddr is the default listen address for the API server.
	DefaultAddr = ":8080"
	// DefaultReadTimeout bounds how long reading a request may take.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds how long writing a response may take.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr overrides the default API server address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the booking flow, its state, and the store behind HTTP
// endpoints.
type Server struct {
	coordinator *flow.Coordinator
	states      flow.StateManager
	st          store.Store
	twilio      *messaging.TwilioService
	httpServer  *http.Server
	addr        string
}

// NewServer creates an API server. The Twilio service may be nil when the
// deployment has no SMS channel; the webhook route is only mounted when it is
// present.
func NewServer(coordinator *flow.Coordinator, states flow.StateManager, st store.Store, twilio *messaging.TwilioService, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return &Server{
		coordinator: coordinator,
		states:      states,
		st:          st,
		twilio:      twilio,
		addr:        cfg.Addr,
	}
}

// routes builds the HTTP handler for the server.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/turn", s.turnHandler)
	mux.HandleFunc("/conversations/", s.conversationHandler)
	mux.HandleFunc("/responses", s.responsesHandler)
	mux.HandleFunc("/receipts", s.receiptsHandler)
	if s.twilio != nil {
		mux.HandleFunc("/webhooks/twilio", s.twilio.TwilioWebhookHandler)
	}
	return mux
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Run starts the API server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("BookFlow API running", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
		slog.Info("BookFlow API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("API server shutdown failed: %w", err)
		}
		return nil
	}
}
