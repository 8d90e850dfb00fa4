// Package agent is a client for a Letta-style agent service. The server uses
// it for translation prompts, chat and the save_vocab tool.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/netx"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
)

// Options configures a Client. Zero retry fields fall back to defaults.
type Options struct {
	BaseURL string
	APIKey  string
	AgentID string
	Timeout time.Duration

	MaxRetries uint64
	RetryBase  time.Duration
}

// Message is one chat history entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the agent REST API. Calls pass through a circuit breaker
// and transient failures (transport errors, 5xx, 429) are retried with
// exponential backoff inside a single breaker attempt.
type Client struct {
	baseURL string
	apiKey  string
	agentID string

	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  logging.Logger

	maxRetries uint64
	retryBase  time.Duration
}

func New(o Options, logger logging.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(o.BaseURL, "/"),
		apiKey:     o.APIKey,
		agentID:    o.AgentID,
		http:       &http.Client{Timeout: o.Timeout},
		logger:     logger.With("module", "agent"),
		maxRetries: o.MaxRetries,
		retryBase:  o.RetryBase,
	}
	if c.maxRetries == 0 {
		c.maxRetries = 2
	}
	if c.retryBase <= 0 {
		c.retryBase = 200 * time.Millisecond
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "agent",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	})

	return c
}

// Configured reports whether both an API key and a default agent id are set.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.agentID != ""
}

// AgentID is the default agent used when callers pass "".
func (c *Client) AgentID() string {
	return c.agentID
}

type messageCreate struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sendRequest struct {
	Messages []messageCreate `json:"messages"`
}

type agentMessage struct {
	MessageType string          `json:"message_type"`
	Content     json.RawMessage `json:"content"`
}

type sendResponse struct {
	Messages []agentMessage `json:"messages"`
}

// SendMessage posts text as a user message and returns the concatenated
// assistant replies.
func (c *Client) SendMessage(ctx context.Context, agentID, text string) (string, error) {
	agentID, err := c.resolve(agentID)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1/agents/%s/messages", c.baseURL, url.PathEscape(agentID))
	body := sendRequest{Messages: []messageCreate{{Role: "user", Content: text}}}

	raw, err := c.call(ctx, func(ctx context.Context) (*http.Request, error) {
		return netx.NewJSONRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return "", err
	}

	var resp sendResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: decode agent reply: %w", common.ErrorCollaborator, err)
	}

	var parts []string
	for _, m := range resp.Messages {
		if m.MessageType != "assistant_message" {
			continue
		}
		if s := contentText(m.Content); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ListMessages returns up to limit user and assistant messages, oldest
// first. Reasoning and tool messages are skipped.
func (c *Client) ListMessages(ctx context.Context, agentID string, limit int) ([]Message, error) {
	agentID, err := c.resolve(agentID)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/v1/agents/%s/messages", c.baseURL, url.PathEscape(agentID))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	raw, err := c.call(ctx, func(ctx context.Context) (*http.Request, error) {
		return netx.NewJSONRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, err
	}

	var list []agentMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: decode messages: %w", common.ErrorCollaborator, err)
	}

	out := make([]Message, 0, len(list))
	for _, m := range list {
		var role string
		switch m.MessageType {
		case "user_message":
			role = "user"
		case "assistant_message":
			role = "assistant"
		default:
			continue
		}
		out = append(out, Message{Role: role, Content: contentText(m.Content)})
	}
	return out, nil
}

type toolRequest struct {
	Input  any    `json:"input"`
	UserID string `json:"user_id"`
}

// RunTool invokes a server-side agent tool and returns its raw JSON result.
func (c *Client) RunTool(ctx context.Context, agentID, tool string, input any, userID string) (json.RawMessage, error) {
	agentID, err := c.resolve(agentID)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/agent/%s/tool/%s/run", c.baseURL, url.PathEscape(agentID), url.PathEscape(tool))
	body := toolRequest{Input: input, UserID: userID}

	raw, err := c.call(ctx, func(ctx context.Context) (*http.Request, error) {
		return netx.NewJSONRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

// NotifyVocab runs the save_vocab tool for a freshly highlighted word.
func (c *Client) NotifyVocab(ctx context.Context, userID, word string) (json.RawMessage, error) {
	return c.RunTool(ctx, "", "save_vocab", word, userID)
}

func (c *Client) resolve(agentID string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: agent api key is not set", common.ErrorNotConfigured)
	}
	if agentID == "" {
		agentID = c.agentID
	}
	if agentID == "" {
		return "", fmt.Errorf("%w: agent id is not set", common.ErrorNotConfigured)
	}
	return agentID, nil
}

// call executes one logical request. build is invoked per attempt since a
// request body can only be read once.
func (c *Client) call(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))

	out, err := c.breaker.Execute(func() ([]byte, error) {
		return retry.DoValue(ctx, backoff, func(ctx context.Context) ([]byte, error) {
			req, err := build(ctx)
			if err != nil {
				return nil, err
			}
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.apiKey)

			b, err := netx.Do(c.http, req)
			if err != nil {
				if retryable(ctx, err) {
					c.logger.Debug(ctx, "agent call failed, retrying", "url", req.URL.Path, "error", err)
					return nil, retry.RetryableError(err)
				}
				return nil, err
			}
			return b, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: agent: %w", common.ErrorCollaborator, err)
	}
	return out, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *netx.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

// contentText accepts either a plain string or a list of {"type":"text"}
// parts.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	var b strings.Builder
	for _, p := range parts {
		if p.Type == "" || p.Type == "text" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
