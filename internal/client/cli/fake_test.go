package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/highlighter/internal/client/client"
	"github.com/dmitrijs2005/highlighter/internal/client/config"
)

type fakeAPI struct {
	mu      sync.Mutex
	pingErr error
	err     error
	userID  string

	gotUser, gotPass string
	gotLangs         [2]string
	gotOpts          client.StreamOptions
	gotAudio         []byte
	replies          []string

	words    []string
	messages []client.Message
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAPI) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeAPI) UserID() string { return f.userID }
func (f *fakeAPI) Logout()        { f.userID = "" }

func (f *fakeAPI) Register(ctx context.Context, userID, password string) (client.User, error) {
	return f.Login(ctx, userID, password)
}

func (f *fakeAPI) Login(ctx context.Context, userID, password string) (client.User, error) {
	f.gotUser, f.gotPass = userID, password
	if f.err != nil {
		return client.User{}, f.err
	}
	f.userID = userID
	return client.User{UserID: userID, SourceLanguage: "auto", TargetLanguage: "Spanish"}, nil
}

func (f *fakeAPI) Me(ctx context.Context) (client.User, error) {
	return client.User{UserID: f.userID, HighlightedWords: f.words}, f.err
}

func (f *fakeAPI) Highlight(ctx context.Context, userID, text string) (client.User, error) {
	if f.err != nil {
		return client.User{}, f.err
	}
	f.words = append(f.words, text)
	return client.User{UserID: userID, HighlightedWords: f.words}, nil
}

func (f *fakeAPI) Translate(ctx context.Context, userID, text string) (client.Translation, error) {
	return client.Translation{TranslatedText: "[" + text + "]", SourceLanguage: "auto", TargetLanguage: "Spanish"}, f.err
}

func (f *fakeAPI) UpdateLanguages(ctx context.Context, userID, source, target string) (client.User, error) {
	f.gotLangs = [2]string{source, target}
	return client.User{UserID: userID, SourceLanguage: source, TargetLanguage: target}, f.err
}

func (f *fakeAPI) Words(ctx context.Context, userID string) ([]string, error) {
	return f.words, f.err
}

func (f *fakeAPI) RemoveWord(ctx context.Context, userID, word string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.words[:0]
	for _, w := range f.words {
		if w != word {
			out = append(out, w)
		}
	}
	f.words = out
	return out, nil
}

func (f *fakeAPI) Stats(ctx context.Context, userID string) (client.UserStats, error) {
	return client.UserStats{UserID: userID, TotalWords: len(f.words), RecentWords: f.words, SourceLanguage: "auto", TargetLanguage: "Spanish"}, f.err
}

func (f *fakeAPI) SendMessage(ctx context.Context, userID, text string) (string, error) {
	return "echo: " + text, f.err
}

func (f *fakeAPI) Messages(ctx context.Context, userID string, limit int) ([]client.Message, error) {
	return f.messages, f.err
}

func (f *fakeAPI) StreamAudio(ctx context.Context, audio []byte, opts client.StreamOptions, onReply func(string)) error {
	f.gotAudio, f.gotOpts = audio, opts
	for _, r := range f.replies {
		onReply(r)
	}
	return f.err
}

func newTestApp(api *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{AudioChunkBytes: 4},
		api:    api,
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &out,
	}, &out
}

// stubInputs makes getSimpleText return answers in order and getPassword
// return password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
}
