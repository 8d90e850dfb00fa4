package stream

import (
	"context"
	"errors"
	"sync"
)

type frame struct {
	kind FrameKind
	data []byte
}

// fakeTransport feeds frames from a channel and records every sent text.
type fakeTransport struct {
	in      chan frame
	mu      sync.Mutex
	sent    []string
	sendErr error
	closed  chan struct{}
	once    sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{in: make(chan frame, 16), closed: make(chan struct{})}
}

func (f *fakeTransport) Receive(ctx context.Context) (FrameKind, []byte, error) {
	select {
	case fr, ok := <-f.in:
		if !ok {
			return 0, nil, ErrClosed
		}
		return fr.kind, fr.data, nil
	case <-f.closed:
		return 0, nil, ErrClosed
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (f *fakeTransport) SendText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeTransport) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) failSends(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

// scriptedTranscriber maps chunk contents to results.
type scriptedTranscriber struct {
	results map[string]string
	fail    map[string]error
}

func (s scriptedTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	if err, ok := s.fail[string(audio)]; ok {
		return "", err
	}
	if text, ok := s.results[string(audio)]; ok {
		return text, nil
	}
	return "", errors.New("unexpected chunk")
}

type countingObserver struct {
	mu                           sync.Mutex
	opened, closed, chunks, errs int
	dropped                      int
}

func (o *countingObserver) ConnectionOpened() { o.mu.Lock(); o.opened++; o.mu.Unlock() }
func (o *countingObserver) ConnectionClosed() { o.mu.Lock(); o.closed++; o.mu.Unlock() }
func (o *countingObserver) RecordChunk(int)   { o.mu.Lock(); o.chunks++; o.mu.Unlock() }
func (o *countingObserver) RecordTranscription(_ float64, failed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if failed {
		o.errs++
	}
}
func (o *countingObserver) RecordBroadcastFailures(n int) { o.mu.Lock(); o.dropped += n; o.mu.Unlock() }
