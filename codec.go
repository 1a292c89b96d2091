package slab

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Codec identifies the compression codec used for chunk payloads.
type Codec int

const (
	// CodecSnappy is the default: fast with moderate ratios.
	CodecSnappy Codec = iota
	// CodecZstd favors compression ratio over speed.
	CodecZstd
	// CodecLZ4 favors decompression speed.
	CodecLZ4
	// CodecGzip uses stdlib gzip at the default level.
	CodecGzip
	// CodecNone stores chunks uncompressed.
	CodecNone
)

func (c Codec) String() string {
	switch c {
	case CodecSnappy:
		return "snappy"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	case CodecGzip:
		return "gzip"
	case CodecNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseCodec maps a codec name to its tag.
func ParseCodec(s string) (Codec, error) {
	switch s {
	case "snappy", "":
		return CodecSnappy, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "gzip":
		return CodecGzip, nil
	case "none":
		return CodecNone, nil
	default:
		return CodecSnappy, fmt.Errorf("unknown codec %q", s)
	}
}

// UnmarshalYAML accepts the codec by name in config files.
func (c *Codec) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseCodec(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML emits the codec by name.
func (c Codec) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Shared zstd coders. EncodeAll/DecodeAll on these are safe for concurrent
// use and avoid per-chunk coder setup.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

func (c Codec) compress(src []byte) ([]byte, error) {
	switch c {
	case CodecSnappy:
		return snappy.Encode(nil, src), nil
	case CodecZstd:
		return zstdEncoder.EncodeAll(src, nil), nil
	case CodecLZ4:
		buf := &bytes.Buffer{}
		zw := lz4.NewWriter(buf)
		if _, err := zw.Write(src); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CodecGzip:
		buf := &bytes.Buffer{}
		zw := gzip.NewWriter(buf)
		if _, err := zw.Write(src); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CodecNone:
		return append([]byte(nil), src...), nil
	default:
		return nil, fmt.Errorf("unknown codec %d", c)
	}
}

func (c Codec) decompress(src []byte) ([]byte, error) {
	switch c {
	case CodecSnappy:
		return snappy.Decode(nil, src)
	case CodecZstd:
		return zstdDecoder.DecodeAll(src, nil)
	case CodecLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
	case CodecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		defer func() { _ = zr.Close() }()
		return io.ReadAll(zr)
	case CodecNone:
		return src, nil
	default:
		return nil, fmt.Errorf("unknown codec %d", c)
	}
}
