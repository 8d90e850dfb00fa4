package stream

// Observer receives streaming events for instrumentation.
// *metrics.Metrics satisfies it.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	RecordChunk(sizeBytes int)
	RecordTranscription(durationSeconds float64, failed bool)
	RecordBroadcastFailures(n int)
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened() {}
func (nopObserver) ConnectionClosed() {}
func (nopObserver) RecordChunk(int) {}
func (nopObserver) RecordTranscription(float64, bool) {}
func (nopObserver) RecordBroadcastFailures(int) {}
