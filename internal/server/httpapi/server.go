// Package httpapi is the public HTTP surface of the server: the JSON routes
// used by the browser extension and the web app, and the /ws/audio stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/agent"
	"github.com/dmitrijs2005/highlighter/internal/server/session"
	"github.com/dmitrijs2005/highlighter/internal/server/stream"
	"github.com/dmitrijs2005/highlighter/internal/server/transcribe"
	"github.com/gorilla/websocket"
)

// Agent is the part of agent.Client the handlers use.
type Agent interface {
	Configured() bool
	SendMessage(ctx context.Context, agentID, text string) (string, error)
	ListMessages(ctx context.Context, agentID string, limit int) ([]agent.Message, error)
	NotifyVocab(ctx context.Context, userID, word string) (json.RawMessage, error)
}

// Translator renders and sends translation prompts.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Metrics records per-route request metrics and exposes the scrape handler.
type Metrics interface {
	RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64)
	RecordHTTPError(method, endpoint, errorType string)
	Handler() http.Handler
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Sessions    *session.Service
	Agent       Agent
	Translator  Translator
	Transcriber transcribe.Transcriber
	Registry    *stream.Registry
	Observer    stream.Observer
	Metrics     Metrics
	Logger      logging.Logger

	SecretKey     []byte
	TokenValidity time.Duration
	MaxFrameBytes int64
}

// Server holds the handlers and the underlying http.Server.
type Server struct {
	address string
	deps    Deps
	logger  logging.Logger

	upgrader websocket.Upgrader
	srv      *http.Server

	// baseCtx is the parent of every streaming pipeline; cancelling it on
	// shutdown stops the long-lived connections Shutdown does not wait for.
	baseCtx context.Context
	stop    context.CancelFunc
}

func New(address string, d Deps) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		address: address,
		deps:    d,
		logger:  d.Logger.With("module", "http_server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		baseCtx: ctx,
		stop:    cancel,
	}

	s.srv = &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.stop()
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	s.stop()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
