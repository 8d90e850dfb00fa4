package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/highlighter/internal/flagx"
	"github.com/dmitrijs2005/highlighter/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a config file. Interval fields use
// timex.Duration so both "1m" strings and integer nanoseconds are accepted.
// Only non-zero values are copied onto the runtime Config.
type FileConfig struct {
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr string `json:"grpc_addr" yaml:"grpc_addr"`

	StoreBackend string `json:"store_backend" yaml:"store_backend"`
	StorePath    string `json:"store_path"    yaml:"store_path"`
	DatabaseDSN  string `json:"database_dsn"  yaml:"database_dsn"`

	S3RootUser     string `json:"s3_root_user"     yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"        yaml:"s3_bucket"`
	S3Region       string `json:"s3_region"        yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3ObjectKey    string `json:"s3_object_key"    yaml:"s3_object_key"`

	SecretKey                   string         `json:"secret_key"                     yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`

	AgentBaseURL string         `json:"agent_base_url" yaml:"agent_base_url"`
	AgentAPIKey  string         `json:"agent_api_key"  yaml:"agent_api_key"`
	AgentID      string         `json:"agent_id"       yaml:"agent_id"`
	AgentTimeout timex.Duration `json:"agent_timeout"  yaml:"agent_timeout"`

	TranscriptionBackend string         `json:"transcription_backend"  yaml:"transcription_backend"`
	TranscriptionBaseURL string         `json:"transcription_base_url" yaml:"transcription_base_url"`
	TranscriptionAPIKey  string         `json:"transcription_api_key"  yaml:"transcription_api_key"`
	TranscriptionModel   string         `json:"transcription_model"    yaml:"transcription_model"`
	TranscriptionTimeout timex.Duration `json:"transcription_timeout"  yaml:"transcription_timeout"`
	MaxAudioChunkBytes   int64          `json:"max_audio_chunk_bytes"  yaml:"max_audio_chunk_bytes"`

	LogLevel  string `json:"log_level"  yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// parseFile overlays values from the config file named by -c/-config (or
// HIGHLIGHTER_CONFIG). Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON. A missing flag means nothing to load; an
// unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	fc, err := readFile(path)
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	fc := &FileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.StoreBackend, fc.StoreBackend)
	setString(&c.StorePath, fc.StorePath)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3ObjectKey, fc.S3ObjectKey)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.AgentBaseURL, fc.AgentBaseURL)
	setString(&c.AgentAPIKey, fc.AgentAPIKey)
	setString(&c.AgentID, fc.AgentID)
	setString(&c.TranscriptionBackend, fc.TranscriptionBackend)
	setString(&c.TranscriptionBaseURL, fc.TranscriptionBaseURL)
	setString(&c.TranscriptionAPIKey, fc.TranscriptionAPIKey)
	setString(&c.TranscriptionModel, fc.TranscriptionModel)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)

	if fc.AccessTokenValidityDuration.Duration > 0 {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.AgentTimeout.Duration > 0 {
		c.AgentTimeout = fc.AgentTimeout.Duration
	}
	if fc.TranscriptionTimeout.Duration > 0 {
		c.TranscriptionTimeout = fc.TranscriptionTimeout.Duration
	}
	if fc.MaxAudioChunkBytes > 0 {
		c.MaxAudioChunkBytes = fc.MaxAudioChunkBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
