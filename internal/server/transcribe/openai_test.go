package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAI(url string) *OpenAI {
	return NewOpenAI(OpenAIOptions{
		BaseURL:    url,
		APIKey:     "sk-test",
		Model:      "whisper-1",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	})
}

func TestOpenAI_Transcribe(t *testing.T) {
	var gotAuth, gotModel, gotFile, gotPath string
	var gotAudio []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		f, hdr, err := r.FormFile("file")
		if err == nil {
			gotFile = hdr.Filename
			gotAudio, _ = io.ReadAll(f)
			_ = f.Close()
		}
		_, _ = w.Write([]byte(`{"text":"  hello world "}`))
	}))
	defer ts.Close()

	wav := wrapPCM([]byte{1, 2, 3, 4})
	text, err := newOpenAI(ts.URL+"/").Transcribe(context.Background(), wav)
	require.NoError(t, err)

	assert.Equal(t, "hello world", text)
	assert.Equal(t, "/audio/transcriptions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "audio.wav", gotFile)
	assert.Equal(t, wav, gotAudio)
}

func TestOpenAI_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newOpenAI(ts.URL).Transcribe(context.Background(), []byte("RIFF0000WAVEdata"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorCollaborator)
	assert.EqualValues(t, 3, calls.Load(), "one attempt plus two retries")
}

func TestOpenAI_BadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := newOpenAI(ts.URL).Transcribe(context.Background(), []byte("OggS...."))
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestOpenAI_EmptyChunk(t *testing.T) {
	text, err := newOpenAI("http://127.0.0.1:1").Transcribe(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestSniffFilename(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		wrapped bool
	}{
		{"wav", wrapPCM([]byte{0, 0}), "audio.wav", false},
		{"ogg", []byte("OggS\x00\x02"), "audio.ogg", false},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, "audio.webm", false},
		{"flac", []byte("fLaC\x00"), "audio.flac", false},
		{"mp3 id3", []byte("ID3\x03"), "audio.mp3", false},
		{"mp3 frame", []byte{0xFF, 0xFB, 0x90}, "audio.mp3", false},
		{"raw pcm", []byte{1, 2, 3, 4}, "audio.wav", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, payload := sniffFilename(tt.in)
			assert.Equal(t, tt.want, name)
			if tt.wrapped {
				assert.Len(t, payload, 44+len(tt.in))
				assert.Equal(t, "RIFF", string(payload[:4]))
				assert.Equal(t, tt.in, payload[44:])
			} else {
				assert.Equal(t, tt.in, payload)
			}
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	cfg.TranscriptionAPIKey = "k"
	tr, err := New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, tr)

	cfg.TranscriptionAPIKey = ""
	tr, err = New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, None{}, tr)

	cfg.TranscriptionBackend = config.TranscriptionBackendNone
	tr, err = New(cfg, logging.Nop())
	require.NoError(t, err)
	_, err = tr.Transcribe(context.Background(), []byte{1})
	assert.ErrorIs(t, err, common.ErrorNotConfigured)

	cfg.TranscriptionBackend = "vosk"
	_, err = New(cfg, logging.Nop())
	assert.Error(t, err)
}
