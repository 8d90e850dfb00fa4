package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/agent"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
	"github.com/dmitrijs2005/highlighter/internal/server/session"
	"github.com/dmitrijs2005/highlighter/internal/server/stream"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	saved   *models.Snapshot
	saveErr error
}

func (m *memStore) Load(context.Context) (*models.Snapshot, error) {
	return models.NewSnapshot(), nil
}

func (m *memStore) Save(_ context.Context, s *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = s.Clone()
	return nil
}

func (m *memStore) failSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

type fakeAgent struct {
	mu         sync.Mutex
	configured bool
	reply      string
	sendErr    error
	notifyErr  error
	history    []agent.Message
	notified   []string
	sent       []string
}

func (f *fakeAgent) Configured() bool { return f.configured }

func (f *fakeAgent) SendMessage(_ context.Context, _ string, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	if !f.configured {
		return "", common.ErrorNotConfigured
	}
	return f.reply, f.sendErr
}

func (f *fakeAgent) ListMessages(context.Context, string, int) ([]agent.Message, error) {
	if !f.configured {
		return nil, common.ErrorNotConfigured
	}
	return f.history, nil
}

func (f *fakeAgent) NotifyVocab(_ context.Context, userID, word string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, userID+":"+word)
	if f.notifyErr != nil {
		return nil, f.notifyErr
	}
	return json.RawMessage(`{"ok":true}`), nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	requests []string
	errors   []string
}

func (m *fakeMetrics) RecordHTTPRequest(method, endpoint, status string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, fmt.Sprintf("%s %s %s", method, endpoint, status))
}

func (m *fakeMetrics) RecordHTTPError(method, endpoint, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf("%s %s %s", method, endpoint, errorType))
}

func (m *fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}

type echoTranscriber struct{}

func (echoTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	if string(audio) == "bad" {
		return "", fmt.Errorf("%w: model unavailable", common.ErrorCollaborator)
	}
	return string(audio), nil
}

type fixture struct {
	srv      *Server
	h        http.Handler
	store    *memStore
	agent    *fakeAgent
	metrics  *fakeMetrics
	registry *stream.Registry
	sessions *session.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := &memStore{}
	sessions, err := session.New(context.Background(), st, logging.Nop())
	require.NoError(t, err)

	ag := &fakeAgent{configured: true, reply: "hola"}
	m := &fakeMetrics{}
	reg := stream.NewRegistry(logging.Nop(), nil)

	srv := New("127.0.0.1:0", Deps{
		Sessions:      sessions,
		Agent:         ag,
		Translator:    agent.NewTranslator(ag),
		Transcriber:   echoTranscriber{},
		Registry:      reg,
		Metrics:       m,
		Logger:        logging.Nop(),
		SecretKey:     []byte("test-secret"),
		TokenValidity: time.Hour,
		MaxFrameBytes: 1 << 16,
	})
	t.Cleanup(srv.stop)

	return &fixture{srv: srv, h: srv.Handler(), store: st, agent: ag, metrics: m, registry: reg, sessions: sessions}
}

func (f *fixture) do(t *testing.T, method, path string, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}

	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
