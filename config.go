package slab

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the construction entry points. The zero value is usable;
// DefaultConfig spells out the defaults.
type Config struct {
	// Chunked tunes the compressed chunked engine.
	Chunked ChunkedConfig `yaml:"chunked"`

	// Logger receives debug diagnostics from the engines. Nil disables
	// logging.
	Logger *slog.Logger `yaml:"-"`
}

// ChunkedConfig tunes the compressed chunked engine.
type ChunkedConfig struct {
	// ChunkLen is the number of elements per chunk. Default: 4096.
	ChunkLen int `yaml:"chunk_len"`

	// Codec selects the chunk compression codec. Default: snappy.
	Codec Codec `yaml:"codec"`

	// Checksums enables BLAKE3 integrity hashing of every sealed chunk,
	// verified on decompression. Default: true.
	Checksums bool `yaml:"checksums"`

	// Logger receives per-chunk debug diagnostics. Nil disables logging.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the default construction configuration.
func DefaultConfig() Config {
	return Config{Chunked: DefaultChunkedConfig()}
}

// DefaultChunkedConfig returns the default chunked engine configuration.
func DefaultChunkedConfig() ChunkedConfig {
	return ChunkedConfig{
		ChunkLen:  4096,
		Codec:     CodecSnappy,
		Checksums: true,
	}
}

func (cfg ChunkedConfig) withDefaults() ChunkedConfig {
	if cfg.ChunkLen <= 0 {
		cfg.ChunkLen = 4096
	}
	return cfg
}

// ParseConfig decodes a YAML configuration document over the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a YAML configuration file over the
// defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
