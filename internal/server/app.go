// Package server wires the highlighter server together: it opens the store,
// loads the session state, builds the collaborators and runs the HTTP and
// admin gRPC servers until a signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/agent"
	"github.com/dmitrijs2005/highlighter/internal/server/config"
	"github.com/dmitrijs2005/highlighter/internal/server/httpapi"
	"github.com/dmitrijs2005/highlighter/internal/server/metrics"
	"github.com/dmitrijs2005/highlighter/internal/server/session"
	"github.com/dmitrijs2005/highlighter/internal/server/store"
	"github.com/dmitrijs2005/highlighter/internal/server/stream"
	"github.com/dmitrijs2005/highlighter/internal/server/transcribe"

	gs "github.com/dmitrijs2005/highlighter/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	sessions   *session.Service
	registry   *stream.Registry
	metrics    *metrics.Metrics
	httpServer *httpapi.Server
	admin      *gs.AdminServer
	closeStore func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	m := metrics.New()

	admin := gs.NewAdminServer(c.GRPCAddr, logger)

	st, closeStore, err := store.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	// A failed load still leaves a usable empty service.
	sessions, err := session.New(ctx, store.WithMetrics(st, m), logger)
	if err != nil {
		logger.Error(ctx, "store load failed, starting with an empty store", "error", err)
	} else {
		admin.SetServing(true)
	}

	tr, err := transcribe.New(c, logger)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("transcriber init error: %w", err)
	}

	ag := agent.New(agent.Options{
		BaseURL: c.AgentBaseURL,
		APIKey:  c.AgentAPIKey,
		AgentID: c.AgentID,
		Timeout: c.AgentTimeout,
	}, logger)
	if !ag.Configured() {
		logger.Warn(ctx, "agent api key or agent id not set, translation and chat are disabled")
	}

	registry := stream.NewRegistry(logger, m)

	hs := httpapi.New(c.HTTPAddr, httpapi.Deps{
		Sessions:      sessions,
		Agent:         ag,
		Translator:    agent.NewTranslator(ag),
		Transcriber:   tr,
		Registry:      registry,
		Observer:      m,
		Metrics:       m,
		Logger:        logger,
		SecretKey:     []byte(c.SecretKey),
		TokenValidity: c.AccessTokenValidityDuration,
		MaxFrameBytes: c.MaxAudioChunkBytes,
	})

	return &App{
		config:     c,
		logger:     logger,
		sessions:   sessions,
		registry:   registry,
		metrics:    m,
		httpServer: hs,
		admin:      admin,
		closeStore: closeStore,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.admin.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails, then shuts
// everything down.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.HTTPAddr,
		"grpc", app.config.GRPCAddr,
		"store", app.config.StoreBackend,
		"users", app.sessions.Stats().TotalUsers,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	app.registry.Close()

	wg.Wait()

	if err := app.closeStore(); err != nil {
		app.logger.Error(context.Background(), "store close failed", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
