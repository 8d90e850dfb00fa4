package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/highlighter/internal/flagx"
	"github.com/dmitrijs2005/highlighter/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The timeout
// accepts "30s" strings or integer nanoseconds.
type JsonConfig struct {
	ServerURL       string         `json:"server_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	AudioChunkBytes int            `json:"audio_chunk_bytes"`
}

// parseJson overlays Config with the non-zero values of the JSON file named
// by -c/-config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AudioChunkBytes > 0 {
		cfg.AudioChunkBytes = jc.AudioChunkBytes
	}
}
