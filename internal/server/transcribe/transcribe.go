// Package transcribe turns one audio chunk into text. Each chunk is handled
// on its own; nothing is buffered across calls.
package transcribe

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/config"
)

// Transcriber converts audio bytes to text. Empty text is a valid result.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// New returns the backend selected by cfg.TranscriptionBackend.
func New(cfg *config.Config, logger logging.Logger) (Transcriber, error) {
	switch cfg.TranscriptionBackend {
	case config.TranscriptionBackendOpenAI:
		if cfg.TranscriptionAPIKey == "" {
			logger.Warn(context.Background(), "transcription api key is not set, audio chunks will fail")
			return None{}, nil
		}
		return NewOpenAI(OpenAIOptions{
			BaseURL: cfg.TranscriptionBaseURL,
			APIKey:  cfg.TranscriptionAPIKey,
			Model:   cfg.TranscriptionModel,
			Timeout: cfg.TranscriptionTimeout,
		}), nil
	case config.TranscriptionBackendNone, "":
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown transcription backend %q", cfg.TranscriptionBackend)
}

// None fails every chunk with common.ErrorNotConfigured.
type None struct{}

func (None) Transcribe(context.Context, []byte) (string, error) {
	return "", fmt.Errorf("%w: no transcription backend", common.ErrorNotConfigured)
}
