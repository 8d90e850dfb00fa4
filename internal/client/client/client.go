package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
	userID      string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UserID is the account of the last successful Register or Login.
func (c *HTTPClient) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *HTTPClient) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.userID = "", ""
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

type authResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

func (c *HTTPClient) Register(ctx context.Context, userID, password string) (User, error) {
	return c.authenticate(ctx, "/users/register", userID, password)
}

func (c *HTTPClient) Login(ctx context.Context, userID, password string) (User, error) {
	return c.authenticate(ctx, "/users/login", userID, password)
}

func (c *HTTPClient) authenticate(ctx context.Context, path, userID, password string) (User, error) {
	var resp authResponse
	body := map[string]string{"user_id": userID, "password": password}
	if err := c.call(ctx, http.MethodPost, path, body, &resp); err != nil {
		return User{}, err
	}

	c.mu.Lock()
	c.accessToken, c.userID = resp.AccessToken, resp.User.UserID
	c.mu.Unlock()

	return resp.User, nil
}

// Me resolves the current account from the stored token.
func (c *HTTPClient) Me(ctx context.Context) (User, error) {
	var resp struct {
		Data User `json:"data"`
	}
	err := c.call(ctx, http.MethodGet, "/users/me", nil, &resp)
	return resp.Data, err
}

func (c *HTTPClient) Highlight(ctx context.Context, userID, text string) (User, error) {
	var resp struct {
		UserData User `json:"user_data"`
	}
	err := c.call(ctx, http.MethodPost, "/highlight", map[string]string{"highlight": text, "user_id": userID}, &resp)
	return resp.UserData, err
}

func (c *HTTPClient) Translate(ctx context.Context, userID, text string) (Translation, error) {
	var resp Translation
	err := c.call(ctx, http.MethodPost, "/translate", map[string]string{"text": text, "user_id": userID}, &resp)
	return resp, err
}

func (c *HTTPClient) UpdateLanguages(ctx context.Context, userID, source, target string) (User, error) {
	var resp struct {
		Data User `json:"data"`
	}
	body := map[string]string{"user_id": userID, "source_language": source, "target_language": target}
	err := c.call(ctx, http.MethodPost, "/users/languages", body, &resp)
	return resp.Data, err
}

type wordsResponse struct {
	Words []string `json:"words"`
}

func (c *HTTPClient) Words(ctx context.Context, userID string) ([]string, error) {
	var resp wordsResponse
	err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/words", nil, &resp)
	return resp.Words, err
}

func (c *HTTPClient) RemoveWord(ctx context.Context, userID, word string) ([]string, error) {
	var resp wordsResponse
	path := "/users/" + url.PathEscape(userID) + "/words/" + url.PathEscape(word)
	err := c.call(ctx, http.MethodDelete, path, nil, &resp)
	return resp.Words, err
}

func (c *HTTPClient) Stats(ctx context.Context, userID string) (UserStats, error) {
	var resp UserStats
	err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/stats", nil, &resp)
	return resp, err
}

func (c *HTTPClient) SendMessage(ctx context.Context, userID, text string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	err := c.call(ctx, http.MethodPost, "/chat/send-message", map[string]string{"user_id": userID, "text": text}, &resp)
	return resp.Reply, err
}

func (c *HTTPClient) Messages(ctx context.Context, userID string, limit int) ([]Message, error) {
	q := url.Values{"user_id": {userID}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var resp struct {
		Messages []Message `json:"messages"`
	}
	err := c.call(ctx, http.MethodGet, "/chat/get-messages?"+q.Encode(), nil, &resp)
	return resp.Messages, err
}

// call sends body as JSON and decodes the reply into out when non-nil.
func (c *HTTPClient) call(ctx context.Context, method, path string, body, out any) error {
	req, err := netx.NewJSONRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	c.mu.RLock()
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}
	c.mu.RUnlock()

	data, err := netx.Do(c.http, req)
	if err != nil {
		return mapError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
