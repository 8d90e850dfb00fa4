package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays HIGHLIGHTER_* variables; unset ones keep earlier values.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
