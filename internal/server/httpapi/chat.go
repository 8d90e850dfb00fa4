package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/server/agent"
)

const defaultHistoryLimit = 50

type sendMessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// sendMessageResponse nests the exchange as messages.messages, which is
// the shape the web chat page reads.
type sendMessageResponse struct {
	Status   string         `json:"status"`
	Reply    string         `json:"reply"`
	Messages messageHistory `json:"messages"`
}

type messageHistory struct {
	Messages []agent.Message `json:"messages"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, fmt.Errorf("%w: text cannot be empty", common.ErrorValidation))
		return
	}
	if s.deps.Agent == nil {
		s.writeError(w, r, fmt.Errorf("%w: agent is not configured", common.ErrorNotConfigured))
		return
	}

	reply, err := s.deps.Agent.SendMessage(r.Context(), "", req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "chat message sent", "user_id", req.UserID)

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Status: "success",
		Reply:  reply,
		Messages: messageHistory{Messages: []agent.Message{
			{Role: "user", Content: req.Text},
			{Role: "assistant", Content: reply},
		}},
	})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", common.ErrorValidation))
			return
		}
		limit = n
	}
	if s.deps.Agent == nil {
		s.writeError(w, r, fmt.Errorf("%w: agent is not configured", common.ErrorNotConfigured))
		return
	}

	msgs, err := s.deps.Agent.ListMessages(r.Context(), "", limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []agent.Message{}
	}
	writeJSON(w, http.StatusOK, messageHistory{Messages: msgs})
}
