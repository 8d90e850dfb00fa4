package stream

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/transcribe"
)

// State of a Pipeline.
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Reply prefixes sent back to the client.
const (
	TranscribedPrefix = "Transcribed: "
	ErrorPrefix       = "Error: "
)

// Pipeline drives one connection: receive a binary chunk, transcribe it,
// reply on the same connection. Chunks are transcribed one by one with no
// accumulation, so chunk boundaries decide what the transcriber hears.
type Pipeline struct {
	conn        *Connection
	registry    *Registry
	transcriber transcribe.Transcriber
	logger      logging.Logger
	observer    Observer

	state atomic.Int32
}

func NewPipeline(conn *Connection, registry *Registry, tr transcribe.Transcriber, logger logging.Logger, observer Observer) *Pipeline {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Pipeline{
		conn:        conn,
		registry:    registry,
		transcriber: tr,
		logger:      logger.With("module", "pipeline", "conn_id", conn.ID()),
		observer:    observer,
	}
}

func (p *Pipeline) State() State { return State(p.state.Load()) }

// Run blocks until the peer disconnects, a reply cannot be sent or ctx is
// done. A failed transcription is reported to the client and the loop goes
// on. A clean disconnect returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.registry.Register(p.conn) {
		p.state.Store(int32(StateClosed))
		return ErrClosed
	}
	p.state.Store(int32(StateActive))
	p.logger.Info(ctx, "connection active", "connections", p.registry.Count())

	stop := context.AfterFunc(ctx, func() { _ = p.conn.Close() })
	defer func() {
		stop()
		p.state.Store(int32(StateClosed))
		p.registry.Unregister(p.conn)
		_ = p.conn.Close()
		p.logger.Info(context.Background(), "connection closed")
	}()

	for {
		kind, data, err := p.conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		if kind == FrameText {
			p.logger.Debug(ctx, "text frame ignored", "bytes", len(data))
			continue
		}

		reply, ok := p.handleChunk(ctx, data)
		if !ok {
			continue
		}
		if err := p.conn.Send(ctx, reply); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("send: %w", err)
		}
	}
}

// handleChunk returns the reply for one chunk; ok is false when nothing
// should be sent.
func (p *Pipeline) handleChunk(ctx context.Context, chunk []byte) (string, bool) {
	p.observer.RecordChunk(len(chunk))
	p.logger.Debug(ctx, "audio chunk received", "bytes", len(chunk))

	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, chunk)
	p.observer.RecordTranscription(time.Since(start).Seconds(), err != nil)

	if err != nil {
		p.logger.Warn(ctx, "transcription failed", "error", err)
		return ErrorPrefix + err.Error(), true
	}
	if text == "" {
		return "", false
	}
	return TranscribedPrefix + text, true
}
