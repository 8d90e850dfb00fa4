package config

import (
	"net"
	"os"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays fields tagged with `env:"..."`. Unset variables leave the
// current value alone, so defaults and file values survive. PORT (with an
// optional HOST) is also honoured and wins over HTTP_ADDR.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}

	if port := os.Getenv("PORT"); port != "" {
		config.HTTPAddr = net.JoinHostPort(os.Getenv("HOST"), port)
	}
}
