package client

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// StreamOptions tune StreamAudio.
type StreamOptions struct {
	// ChunkBytes is the size of each binary frame.
	ChunkBytes int
	// Idle is how long to wait for further replies after the last chunk.
	Idle time.Duration
}

// StreamAudio sends audio over /ws/audio in ChunkBytes frames and calls
// onReply for every text frame the server sends, in order. A WAV file is
// reduced to its PCM payload first, because only the first chunk would
// otherwise carry the header. It returns once no reply has arrived for
// opts.Idle after the last chunk.
func (c *HTTPClient) StreamAudio(ctx context.Context, audio []byte, opts StreamOptions, onReply func(string)) error {
	if opts.ChunkBytes <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", opts.ChunkBytes)
	}
	if opts.Idle <= 0 {
		opts.Idle = 5 * time.Second
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL("/ws/audio"), http.Header{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	replies := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(replies)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case replies <- string(data):
			case <-done:
				return
			}
		}
	}()

	for chunk := range chunks(PCMPayload(audio), opts.ChunkBytes) {
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			return fmt.Errorf("send chunk: %w", err)
		}
	}

	idle := time.NewTimer(opts.Idle)
	defer idle.Stop()

	for {
		select {
		case msg, ok := <-replies:
			if !ok {
				err := <-readErr
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return fmt.Errorf("receive: %w", err)
			}
			onReply(msg)
			idle.Reset(opts.Idle)

		case <-idle.C:
			return closeNormally(conn)

		case <-ctx.Done():
			_ = closeNormally(conn)
			return ctx.Err()
		}
	}
}

func closeNormally(conn *websocket.Conn) error {
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}

func (c *HTTPClient) wsURL(path string) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + path
}

// chunks yields consecutive slices of at most size bytes.
func chunks(b []byte, size int) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		for len(b) > 0 {
			n := min(size, len(b))
			if !yield(b[:n]) {
				return
			}
			b = b[n:]
		}
	}
}

// PCMPayload returns the samples of the "data" chunk of a RIFF/WAVE file.
// Anything else is returned unchanged.
func PCMPayload(b []byte) []byte {
	if len(b) < 12 || !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return b
	}

	for off := 12; off+8 <= len(b); {
		id := b[off : off+4]
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		start := off + 8
		if bytes.Equal(id, []byte("data")) {
			end := min(start+size, len(b))
			return b[start:end]
		}
		// Chunks are word aligned.
		off = start + size + size%2
	}
	return b
}
