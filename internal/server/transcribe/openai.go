package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/netx"
	"github.com/sethvargo/go-retry"
)

// OpenAIOptions configures an OpenAI-compatible /audio/transcriptions
// endpoint.
type OpenAIOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration

	MaxRetries uint64
	RetryBase  time.Duration
}

// OpenAI uploads each chunk as a multipart form.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client

	maxRetries uint64
	retryBase  time.Duration
}

func NewOpenAI(o OpenAIOptions) *OpenAI {
	t := &OpenAI{
		baseURL:    strings.TrimRight(o.BaseURL, "/"),
		apiKey:     o.APIKey,
		model:      o.Model,
		http:       &http.Client{Timeout: o.Timeout},
		maxRetries: o.MaxRetries,
		retryBase:  o.RetryBase,
	}
	if t.baseURL == "" {
		t.baseURL = "https://api.openai.com/v1"
	}
	if t.model == "" {
		t.model = "whisper-1"
	}
	if t.maxRetries == 0 {
		t.maxRetries = 2
	}
	if t.retryBase <= 0 {
		t.retryBase = 250 * time.Millisecond
	}
	return t
}

func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	name, payload := sniffFilename(audio)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	_ = writer.WriteField("model", o.model)
	_ = writer.WriteField("response_format", "json")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}
	form := body.Bytes()
	contentType := writer.FormDataContentType()

	backoff := retry.WithMaxRetries(o.maxRetries, retry.NewExponential(o.retryBase))
	raw, err := retry.DoValue(ctx, backoff, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", bytes.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+o.apiKey)

		b, err := netx.Do(o.http, req)
		if err != nil {
			var se *netx.StatusError
			if ctx.Err() == nil && (!errors.As(err, &se) || se.Retryable()) {
				return nil, retry.RetryableError(err)
			}
			return nil, err
		}
		return b, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: transcription: %w", common.ErrorCollaborator, err)
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: decode transcription: %w", common.ErrorCollaborator, err)
	}
	return strings.TrimSpace(resp.Text), nil
}
