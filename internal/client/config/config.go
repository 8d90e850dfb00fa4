package config

import "time"

// Config holds runtime settings for the highlighter CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, e.g. http://127.0.0.1:8000.
//   - RequestTimeout: per-request timeout for JSON calls.
//   - AudioChunkBytes: size of the binary frames the audio command sends.
type Config struct {
	ServerURL       string        `env:"HIGHLIGHTER_URL"`
	RequestTimeout  time.Duration `env:"HIGHLIGHTER_TIMEOUT"`
	AudioChunkBytes int           `env:"HIGHLIGHTER_CHUNK_BYTES"`
}

// LoadDefaults populates c with sensible defaults. One audio chunk is one
// second of 16 kHz 16-bit mono PCM.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 30 * time.Second
	c.AudioChunkBytes = 32000
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a JSON file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
