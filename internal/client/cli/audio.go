package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/highlighter/internal/client/client"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Audio streams a recording to the transcription socket and prints every
// reply as it arrives.
func (a *App) Audio(ctx context.Context, path string) error {
	data, err := readFile(path)
	if err != nil {
		return a.report(err)
	}

	opts := client.StreamOptions{ChunkBytes: a.config.AudioChunkBytes}
	err = a.api.StreamAudio(ctx, data, opts, func(reply string) {
		fmt.Fprintln(a.out, reply)
	})
	if err != nil {
		return a.report(err)
	}
	return nil
}
