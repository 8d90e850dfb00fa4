// Package cli provides the interactive highlighter command-line client.
//
// It wires configuration and the HTTP API client into a small REPL: log in,
// highlight and translate words, manage the word list, chat with the agent
// and stream a recording to the transcription endpoint. A background
// watcher pings the server and reports online/offline transitions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
