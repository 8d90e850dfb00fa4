package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/server/auth"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

// credentialsRequest accepts either user_id (extension) or username (web app).
type credentialsRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentialsRequest) id() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Username
}

type authResponse struct {
	Status      string      `json:"status"`
	Message     string      `json:"message"`
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

type userResponse struct {
	Status string      `json:"status"`
	Data   models.User `json:"data"`
}

type wordsResponse struct {
	Status string   `json:"status"`
	UserID string   `json:"user_id"`
	Words  []string `json:"words"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.deps.Sessions.Register(r.Context(), req.id(), req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAuth(w, r, u, "User registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.deps.Sessions.Login(r.Context(), req.id(), req.Password)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid user id or password", err))
		return
	}
	s.writeAuth(w, r, u, "Login successful")
}

func (s *Server) writeAuth(w http.ResponseWriter, r *http.Request, u models.User, msg string) {
	token, err := auth.GenerateToken(u.UserID, s.deps.SecretKey, s.deps.TokenValidity)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: sign token: %w", common.ErrorInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Status:      "success",
		Message:     msg,
		User:        u,
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// handleMe resolves the caller from the bearer token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := s.bearerUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.deps.Sessions.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Status: "success", Data: u})
}

func (s *Server) bearerUserID(r *http.Request) (string, error) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(h, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized)
	}
	return auth.GetUserIDFromToken(strings.TrimSpace(token), s.deps.SecretKey)
}

// handleGetUser creates the record on first access.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Sessions.GetOrCreateUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Status: "success", Data: u})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Sessions.DeleteUser(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: fmt.Sprintf("User %s deleted", id)})
}

type languagesRequest struct {
	UserID         string `json:"user_id"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func (s *Server) handleUpdateLanguages(w http.ResponseWriter, r *http.Request) {
	var req languagesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.deps.Sessions.UpdateLanguages(ctx, req.UserID, req.SourceLanguage, req.TargetLanguage); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.deps.Sessions.GetUser(ctx, req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Status: "success", Data: u})
}

type preferencesRequest struct {
	UserID      string             `json:"user_id"`
	Preferences models.Preferences `json:"preferences"`
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.deps.Sessions.SetPreferences(r.Context(), req.UserID, req.Preferences)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string      `json:"status"`
		User   models.User `json:"user"`
	}{"success", u})
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	words, err := s.deps.Sessions.HighlightedWords(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wordsResponse{Status: "success", UserID: id, Words: words})
}

type wordRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if err := s.deps.Sessions.AddHighlightedWord(r.Context(), id, req.Word); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleListWords(w, r)
}

func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.RemoveHighlightedWord(r.Context(), r.PathValue("id"), r.PathValue("word")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleListWords(w, r)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Sessions.UserStats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
