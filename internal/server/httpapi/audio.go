package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/highlighter/internal/server/stream"
)

// handleAudio upgrades to a WebSocket and runs the transcription pipeline
// until the peer goes away or the server shuts down.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	conn := stream.NewConnection(stream.NewWebSocketTransport(c, s.deps.MaxFrameBytes))
	p := stream.NewPipeline(conn, s.deps.Registry, s.deps.Transcriber, s.deps.Logger, s.deps.Observer)

	if err := p.Run(s.baseCtx); err != nil {
		s.logger.Warn(r.Context(), "audio stream ended with error", "conn_id", conn.ID(), "error", err)
	}
}
