package slab

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chunked.ChunkLen != 4096 {
		t.Errorf("expected default chunk length 4096, got %d", cfg.Chunked.ChunkLen)
	}
	if cfg.Chunked.Codec != CodecSnappy {
		t.Errorf("expected snappy default, got %s", cfg.Chunked.Codec)
	}
	if !cfg.Chunked.Checksums {
		t.Error("checksums should default to on")
	}
}

func TestParseConfig(t *testing.T) {
	doc := []byte(`
chunked:
  chunk_len: 512
  codec: zstd
  checksums: false
`)
	cfg, err := ParseConfig(doc)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunked.ChunkLen != 512 {
		t.Errorf("expected chunk length 512, got %d", cfg.Chunked.ChunkLen)
	}
	if cfg.Chunked.Codec != CodecZstd {
		t.Errorf("expected zstd, got %s", cfg.Chunked.Codec)
	}
	if cfg.Chunked.Checksums {
		t.Error("checksums should be disabled")
	}
}

func TestParseConfigPartial(t *testing.T) {
	cfg, err := ParseConfig([]byte("chunked:\n  codec: lz4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunked.Codec != CodecLZ4 {
		t.Errorf("expected lz4, got %s", cfg.Chunked.Codec)
	}
	// Unset fields keep their defaults.
	if cfg.Chunked.ChunkLen != 4096 {
		t.Errorf("expected default chunk length, got %d", cfg.Chunked.ChunkLen)
	}
	if !cfg.Chunked.Checksums {
		t.Error("checksums default should survive a partial document")
	}
}

func TestParseConfigBadCodec(t *testing.T) {
	if _, err := ParseConfig([]byte("chunked:\n  codec: brotli\n")); err == nil {
		t.Error("unknown codec should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slab.yaml")
	if err := os.WriteFile(path, []byte("chunked:\n  chunk_len: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunked.ChunkLen != 16 {
		t.Errorf("expected chunk length 16, got %d", cfg.Chunked.ChunkLen)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
