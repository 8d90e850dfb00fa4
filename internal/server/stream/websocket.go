package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	closeWait = time.Second
)

// WebSocketTransport adapts a gorilla connection to Transport.
type WebSocketTransport struct {
	c *websocket.Conn
}

// NewWebSocketTransport caps inbound frames at maxFrame bytes.
func NewWebSocketTransport(c *websocket.Conn, maxFrame int64) *WebSocketTransport {
	if maxFrame > 0 {
		c.SetReadLimit(maxFrame)
	}
	return &WebSocketTransport{c: c}
}

func (w *WebSocketTransport) Receive(_ context.Context) (FrameKind, []byte, error) {
	for {
		mt, data, err := w.c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
				errors.Is(err, net.ErrClosed) {
				return 0, nil, ErrClosed
			}
			return 0, nil, err
		}

		switch mt {
		case websocket.BinaryMessage:
			return FrameBinary, data, nil
		case websocket.TextMessage:
			return FrameText, data, nil
		}
	}
}

func (w *WebSocketTransport) SendText(ctx context.Context, text string) error {
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := w.c.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := w.c.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (w *WebSocketTransport) Close() error {
	_ = w.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(closeWait))
	return w.c.Close()
}
