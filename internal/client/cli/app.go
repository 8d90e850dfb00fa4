package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/client/client"
	"github.com/dmitrijs2005/highlighter/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// API is the server surface the commands use; *client.HTTPClient implements it.
type API interface {
	Ping(ctx context.Context) error
	UserID() string
	Logout()
	Register(ctx context.Context, userID, password string) (client.User, error)
	Login(ctx context.Context, userID, password string) (client.User, error)
	Me(ctx context.Context) (client.User, error)
	Highlight(ctx context.Context, userID, text string) (client.User, error)
	Translate(ctx context.Context, userID, text string) (client.Translation, error)
	UpdateLanguages(ctx context.Context, userID, source, target string) (client.User, error)
	Words(ctx context.Context, userID string) ([]string, error)
	RemoveWord(ctx context.Context, userID, word string) ([]string, error)
	Stats(ctx context.Context, userID string) (client.UserStats, error)
	SendMessage(ctx context.Context, userID, text string) (string, error)
	Messages(ctx context.Context, userID string, limit int) ([]client.Message, error)
	StreamAudio(ctx context.Context, audio []byte, opts client.StreamOptions, onReply func(string)) error
}

type App struct {
	config *config.Config
	api    API
	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (app *App) setMode(mode Mode) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.mode != mode {
		app.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// CurrentMode reports the last connectivity state seen by the watcher.
func (app *App) CurrentMode() Mode {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.mode
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, 5*time.Second)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.UserID() != ""
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(ctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
