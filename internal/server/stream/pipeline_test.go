package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPipeline(t *testing.T, p *Pipeline) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	return done
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestPipeline_ThreeChunksTwoAcksOneError(t *testing.T) {
	ft := newFakeTransport()
	obs := &countingObserver{}
	reg := NewRegistry(logging.Nop(), obs)
	tr := scriptedTranscriber{
		results: map[string]string{"c1": "hello", "c3": "world"},
		fail:    map[string]error{"c2": fmt.Errorf("%w: upstream 503", common.ErrorCollaborator)},
	}

	p := NewPipeline(NewConnection(ft), reg, tr, logging.Nop(), obs)
	assert.Equal(t, StateConnecting, p.State())

	done := runPipeline(t, p)

	ft.in <- frame{FrameBinary, []byte("c1")}
	ft.in <- frame{FrameBinary, []byte("c2")}
	ft.in <- frame{FrameBinary, []byte("c3")}

	waitFor(t, func() bool { return len(ft.messages()) == 3 })

	msgs := ft.messages()
	assert.Equal(t, "Transcribed: hello", msgs[0])
	assert.Contains(t, msgs[1], "Error: ")
	assert.Contains(t, msgs[1], "upstream 503")
	assert.Equal(t, "Transcribed: world", msgs[2])

	assert.Equal(t, StateActive, p.State(), "connection stays open after a failed chunk")
	assert.Equal(t, 1, reg.Count())
	assert.False(t, ft.isClosed())

	close(ft.in)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, p.State())
	assert.Zero(t, reg.Count())
	assert.Equal(t, 3, obs.chunks)
	assert.Equal(t, 1, obs.errs)
}

func TestPipeline_EmptyResultSendsNothingAndTextIgnored(t *testing.T) {
	ft := newFakeTransport()
	reg := NewRegistry(logging.Nop(), nil)
	tr := scriptedTranscriber{results: map[string]string{"silence": "", "speech": "hi"}}

	done := runPipeline(t, NewPipeline(NewConnection(ft), reg, tr, logging.Nop(), nil))

	ft.in <- frame{FrameBinary, []byte("silence")}
	ft.in <- frame{FrameText, []byte("ping")}
	ft.in <- frame{FrameBinary, []byte("speech")}

	waitFor(t, func() bool { return len(ft.messages()) == 1 })
	assert.Equal(t, []string{"Transcribed: hi"}, ft.messages())

	close(ft.in)
	require.NoError(t, <-done)
}

func TestPipeline_SendFailureCloses(t *testing.T) {
	ft := newFakeTransport()
	ft.failSends(errors.New("reset by peer"))
	reg := NewRegistry(logging.Nop(), nil)
	tr := scriptedTranscriber{results: map[string]string{"c": "text"}}

	p := NewPipeline(NewConnection(ft), reg, tr, logging.Nop(), nil)
	done := runPipeline(t, p)

	ft.in <- frame{FrameBinary, []byte("c")}

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset by peer")
	assert.Equal(t, StateClosed, p.State())
	assert.Zero(t, reg.Count())
	assert.True(t, ft.isClosed())
}

func TestPipeline_ContextCancelCloses(t *testing.T) {
	ft := newFakeTransport()
	reg := NewRegistry(logging.Nop(), nil)
	p := NewPipeline(NewConnection(ft), reg, scriptedTranscriber{}, logging.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitFor(t, func() bool { return p.State() == StateActive })
	cancel()

	require.NoError(t, <-done)
	assert.True(t, ft.isClosed())
	assert.Zero(t, reg.Count())
}

func TestPipeline_RegistryClosedRejects(t *testing.T) {
	reg := NewRegistry(logging.Nop(), nil)
	reg.Close()

	ft := newFakeTransport()
	p := NewPipeline(NewConnection(ft), reg, scriptedTranscriber{}, logging.Nop(), nil)

	assert.ErrorIs(t, p.Run(context.Background()), ErrClosed)
	assert.Equal(t, StateClosed, p.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
