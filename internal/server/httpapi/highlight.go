package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

// DefaultHighlightUser owns highlights sent without a user id.
const DefaultHighlightUser = "chrome_extension_user"

type highlightRequest struct {
	Highlight string `json:"highlight"`
	UserID    string `json:"user_id"`
}

type highlightResponse struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	Highlight     string          `json:"highlight"`
	Length        int             `json:"length"`
	UserData      models.User     `json:"user_data"`
	AgentResponse json.RawMessage `json:"letta_response"`
}

// highlightNotice is broadcast to every open audio connection.
type highlightNotice struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Highlight string `json:"highlight"`
}

// handleHighlight records the word and tells the agent about it. The agent
// call is best effort: its failure is logged and the request still succeeds.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	word := strings.TrimSpace(req.Highlight)
	if word == "" {
		s.writeError(w, r, fmt.Errorf("%w: highlight cannot be empty", common.ErrorValidation))
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = DefaultHighlightUser
	}

	ctx := r.Context()
	if err := s.deps.Sessions.AddHighlightedWord(ctx, userID, word); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.deps.Sessions.GetUser(ctx, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	agentResp := s.notifyAgent(ctx, userID, word)
	s.broadcastHighlight(ctx, userID, word)

	writeJSON(w, http.StatusOK, highlightResponse{
		Status:        "success",
		Message:       "Highlight received and logged",
		Highlight:     word,
		Length:        utf8.RuneCountInString(word),
		UserData:      u,
		AgentResponse: agentResp,
	})
}

func (s *Server) notifyAgent(ctx context.Context, userID, word string) json.RawMessage {
	if s.deps.Agent == nil || !s.deps.Agent.Configured() {
		s.logger.Debug(ctx, "agent not configured, skipping vocab notification")
		return nil
	}

	resp, err := s.deps.Agent.NotifyVocab(ctx, userID, word)
	if err != nil {
		s.logger.Warn(ctx, "vocab notification failed", "user_id", userID, "error", err)
		return nil
	}
	return resp
}

func (s *Server) broadcastHighlight(ctx context.Context, userID, word string) {
	if s.deps.Registry == nil {
		return
	}
	msg, err := json.Marshal(highlightNotice{Type: "highlight", UserID: userID, Highlight: word})
	if err != nil {
		return
	}
	n := s.deps.Registry.Broadcast(ctx, string(msg))
	s.logger.Debug(ctx, "highlight broadcast", "delivered", n)
}

type translateRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

type translateResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// handleTranslate translates with the user's language pair, or the defaults
// for anonymous callers. Unlike /highlight, a downstream failure fails the
// request.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, fmt.Errorf("%w: text cannot be empty", common.ErrorValidation))
		return
	}

	ctx := r.Context()
	source, target := common.DefaultSourceLanguage, common.DefaultTargetLanguage
	if req.UserID != "" {
		u, err := s.deps.Sessions.GetOrCreateUser(ctx, req.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		source, target = u.SourceLanguage, u.TargetLanguage
	}

	if s.deps.Agent == nil || !s.deps.Agent.Configured() {
		s.writeError(w, r, fmt.Errorf("%w: translation service is not configured", common.ErrorNotConfigured))
		return
	}

	translated, err := s.deps.Translator.Translate(ctx, req.Text, source, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		OriginalText:   req.Text,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: target,
	})
}
