// Package stream implements the streaming side of the server: the registry
// of open connections and the per-connection audio transcription pipeline.
package stream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrClosed is returned by a Transport once the peer has gone away.
var ErrClosed = errors.New("connection closed")

// FrameKind tells binary audio from text control frames.
type FrameKind int

const (
	FrameBinary FrameKind = iota
	FrameText
)

// Transport is a message-oriented duplex channel, typically a WebSocket.
// Receive is called from a single goroutine; SendText calls are serialized
// by Connection.
type Transport interface {
	Receive(ctx context.Context) (FrameKind, []byte, error)
	SendText(ctx context.Context, text string) error
	Close() error
}

// Connection wraps a Transport with a stable handle and a liveness flag.
type Connection struct {
	id string
	t  Transport

	writeMu   sync.Mutex
	alive     atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func NewConnection(t Transport) *Connection {
	c := &Connection{id: uuid.NewString(), t: t}
	c.alive.Store(true)
	return c
}

func (c *Connection) ID() string { return c.id }

// Alive is false after a failed send or Close.
func (c *Connection) Alive() bool { return c.alive.Load() }

// Receive blocks for the next frame.
func (c *Connection) Receive(ctx context.Context) (FrameKind, []byte, error) {
	return c.t.Receive(ctx)
}

// Send writes one text message. A failed write marks the connection dead.
func (c *Connection) Send(ctx context.Context, text string) error {
	if !c.Alive() {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.t.SendText(ctx, text); err != nil {
		c.alive.Store(false)
		return err
	}
	return nil
}

// Close is safe to call more than once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.alive.Store(false)
		c.closeErr = c.t.Close()
	})
	return c.closeErr
}
