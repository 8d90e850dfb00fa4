// Package config loads runtime configuration for the highlighter CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config.
//  3. HIGHLIGHTER_URL, HIGHLIGHTER_TIMEOUT and HIGHLIGHTER_CHUNK_BYTES.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server HTTP API
//	-t int      request timeout (seconds)
//	-k int      audio chunk size (bytes)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "30s",
//	  "audio_chunk_bytes": 32000
//	}
package config
