package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Highlight Logger API is running!"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"connections": s.connectionCount(),
	})
}

type statsResponse struct {
	models.StoreStats
	ActiveConnections int `json:"active_connections"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		StoreStats:        s.deps.Sessions.Stats(),
		ActiveConnections: s.connectionCount(),
	})
}

func (s *Server) connectionCount() int {
	if s.deps.Registry == nil {
		return 0
	}
	return s.deps.Registry.Count()
}
