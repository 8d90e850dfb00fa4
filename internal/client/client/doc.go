// Package client talks to the highlighter server for the CLI.
//
// HTTPClient covers the JSON API (accounts, words, translation, chat) and
// keeps the access token returned by Register/Login for GET /users/me.
// StreamAudio sends a recording over /ws/audio in fixed-size chunks and
// reports every reply the server sends back.
//
// Error Handling
//
// Failures are mapped to sentinel errors callers can match with errors.Is:
// ErrUnavailable (server unreachable or 503), ErrUnauthorized (401) and
// ErrConflict (409). The server's "detail" message is kept in the text.
package client
