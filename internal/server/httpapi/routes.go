package httpapi

import (
	"net/http"
	"strings"
)

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /{$}", s.handleRoot)
	s.handle(mux, "GET /health", s.handleHealth)
	s.handle(mux, "GET /stats", s.handleStats)

	s.handle(mux, "POST /highlight", s.handleHighlight)
	s.handle(mux, "POST /translate", s.handleTranslate)

	s.handle(mux, "POST /users/register", s.handleRegister)
	s.handle(mux, "POST /users/login", s.handleLogin)
	s.handle(mux, "GET /users/me", s.handleMe)
	s.handle(mux, "POST /users/languages", s.handleUpdateLanguages)
	s.handle(mux, "POST /users/set-preferences", s.handleSetPreferences)
	s.handle(mux, "GET /users/{id}", s.handleGetUser)
	s.handle(mux, "DELETE /users/{id}", s.handleDeleteUser)
	s.handle(mux, "GET /users/{id}/words", s.handleListWords)
	s.handle(mux, "POST /users/{id}/words", s.handleAddWord)
	s.handle(mux, "DELETE /users/{id}/words/{word}", s.handleRemoveWord)
	s.handle(mux, "GET /users/{id}/stats", s.handleUserStats)

	s.handle(mux, "POST /chat/send-message", s.handleSendMessage)
	s.handle(mux, "GET /chat/get-messages", s.handleGetMessages)

	// The upgrade hijacks the connection, so only the access log applies.
	mux.HandleFunc("GET /ws/audio", s.handleAudio)

	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	}

	return s.withRequestID(s.withAccessLog(withCORS(mux)))
}

// handle registers h and labels its metrics with the pattern's path.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	_, endpoint, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(pattern, s.withMetrics(endpoint, h))
}
