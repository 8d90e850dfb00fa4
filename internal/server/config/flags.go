package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/highlighter/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   admin gRPC bind address (e.g., ":50051")
//	-b string   store backend: file, postgres, s3
//	-f string   store file path (file backend)
//	-d string   PostgreSQL DSN (postgres backend)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log level: debug, info, warn, error
//
// Only the flags listed above are picked out of os.Args (flagx.FilterArgs),
// so -c/-config and unrelated flags do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-b", "-f", "-d", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the admin gRPC endpoint")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (file, postgres, s3)")
	fs.StringVar(&config.StorePath, "f", config.StorePath, "store file path")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
