package slab

import (
	"context"
	"fmt"

	"github.com/zeebo/blake3"
)

// chunk is one sealed run of elements: the codec-compressed payload plus the
// BLAKE3 sum of the uncompressed bytes.
type chunk struct {
	payload []byte
	sum     [32]byte
	n       int
}

// ChunkedArray is the compressed chunked store. Elements accumulate in an
// uncompressed active chunk; once ChunkLen elements are buffered the chunk is
// sealed: hashed, compressed with the configured codec and retained. The
// layout trades write speed for space.
type ChunkedArray struct {
	cfg     ChunkedConfig
	dtype   DType
	shape   []int
	chunks  []chunk
	active  []byte
	activeN int
}

func newChunked(shape []int, dt DType, cfg ChunkedConfig) *ChunkedArray {
	return &ChunkedArray{
		cfg:   cfg.withDefaults(),
		dtype: dt,
		shape: append([]int(nil), shape...),
	}
}

// ChunkedFromValue materializes a native Go value (a scalar or an arbitrarily
// nested slice) into a chunked store. The shape is taken from the nesting;
// the element type is dt, or inferred from the first leaf when dt is
// DTypeInvalid.
func ChunkedFromValue(v any, dt DType, cfg ChunkedConfig) (*ChunkedArray, error) {
	shape := valueShape(v)
	if dt == DTypeInvalid {
		var err error
		dt, err = inferValueDType(v)
		if err != nil {
			return nil, err
		}
	}
	c := newChunked(shape, dt, cfg)
	if err := flattenInto(c, v, shape); err != nil {
		return nil, err
	}
	return c, nil
}

// ChunkedFromIterator streams a one-shot producer into a one-dimensional
// chunked store, sealing chunks as it consumes. count caps consumption when
// non-negative; UnknownCount means the producer's length must not be assumed
// and it is drained to exhaustion. Context cancellation stops consumption
// early and yields the truncated store.
func ChunkedFromIterator(ctx context.Context, it ValueIter, dt DType, count int, cfg ChunkedConfig) (*ChunkedArray, error) {
	c := newChunked([]int{0}, dt, cfg)
	remaining := count
	for ctx.Err() == nil {
		if count != UnknownCount && remaining == 0 {
			break
		}
		v, ok := it.Next()
		if !ok {
			break
		}
		if c.dtype == DTypeInvalid {
			inferred, ok := dtypeOf(v)
			if !ok {
				return nil, &CoercionError{Want: "numeric or bool element", Got: fmt.Sprintf("%T", v)}
			}
			c.dtype = inferred
		}
		if err := c.appendScalar(v); err != nil {
			return nil, err
		}
		c.shape[0]++
		if count != UnknownCount {
			remaining--
		}
	}
	if c.dtype == DTypeInvalid {
		c.dtype = DTypeFloat64
	}
	return c, nil
}

// NewFilledChunked allocates a chunked store of the given fixed shape with
// every element set to fill.
func NewFilledChunked(shape []int, dt DType, fill float64, cfg ChunkedConfig) (*ChunkedArray, error) {
	one, err := encodeFill(dt, fill)
	if err != nil {
		return nil, err
	}
	c := newChunked(shape, dt, cfg)
	for i, n := 0, elemCount(shape); i < n; i++ {
		c.active = append(c.active, one...)
		c.activeN++
		if c.activeN >= c.cfg.ChunkLen {
			if err := c.seal(); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Append adds one element to a one-dimensional chunked store, growing the
// outermost extent. Sealing happens transparently every ChunkLen elements.
func (c *ChunkedArray) Append(v any) error {
	if len(c.shape) != 1 {
		return fmt.Errorf("append requires a one-dimensional store, have %d dims", len(c.shape))
	}
	if err := c.appendScalar(v); err != nil {
		return err
	}
	c.shape[0]++
	return nil
}

func (c *ChunkedArray) appendScalar(v any) error {
	data, err := c.dtype.appendScalar(c.active, v)
	if err != nil {
		return err
	}
	c.active = data
	c.activeN++
	if c.activeN >= c.cfg.ChunkLen {
		return c.seal()
	}
	return nil
}

// seal hashes and compresses the active chunk and retains it.
func (c *ChunkedArray) seal() error {
	if c.activeN == 0 {
		return nil
	}
	var ck chunk
	if c.cfg.Checksums {
		ck.sum = blake3.Sum256(c.active)
	}
	payload, err := c.cfg.Codec.compress(c.active)
	if err != nil {
		return err
	}
	ck.payload = payload
	ck.n = c.activeN
	c.chunks = append(c.chunks, ck)
	recordChunk(len(c.active), len(payload))
	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug("chunk sealed",
			"codec", c.cfg.Codec.String(),
			"elements", c.activeN,
			"raw_bytes", len(c.active),
			"compressed_bytes", len(payload))
	}
	c.active = c.active[:0]
	c.activeN = 0
	return nil
}

// chunkData decompresses sealed chunk i and verifies its checksum.
func (c *ChunkedArray) chunkData(i int) ([]byte, error) {
	raw, err := c.cfg.Codec.decompress(c.chunks[i].payload)
	if err != nil {
		return nil, err
	}
	if c.cfg.Checksums {
		if blake3.Sum256(raw) != c.chunks[i].sum {
			return nil, fmt.Errorf("chunk %d: %w", i, ErrCorrupted)
		}
	}
	return raw, nil
}

// DataShape describes the store's fixed shape and element type.
func (c *ChunkedArray) DataShape() DataShape {
	return fixedDataShape(c.shape, c.dtype)
}

// DType returns the element type tag.
func (c *ChunkedArray) DType() DType {
	return c.dtype
}

// Len returns the number of elements.
func (c *ChunkedArray) Len() int {
	return elemCount(c.shape)
}

// NumChunks returns the number of chunks, counting the unsealed tail.
func (c *ChunkedArray) NumChunks() int {
	if c.activeN > 0 {
		return len(c.chunks) + 1
	}
	return len(c.chunks)
}

// CompressedSize returns the bytes held after compression, including the
// uncompressed tail.
func (c *ChunkedArray) CompressedSize() int {
	n := len(c.active)
	for _, ck := range c.chunks {
		n += len(ck.payload)
	}
	return n
}

// Bytes materializes the decompressed contents of every chunk into one flat
// little-endian slice in row-major order.
func (c *ChunkedArray) Bytes() ([]byte, error) {
	out := make([]byte, 0, c.Len()*c.dtype.Size())
	for i := range c.chunks {
		raw, err := c.chunkData(i)
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
	}
	return append(out, c.active...), nil
}

// Values returns a one-shot iterator over the decoded elements in row-major
// order, decompressing one chunk at a time. A chunk that fails its integrity
// check ends the iteration; use Bytes to surface the error.
func (c *ChunkedArray) Values() ValueIter {
	size := c.dtype.Size()
	idx := 0
	pos := 0
	var cur []byte
	var failed bool
	return FuncIter(func() (any, bool) {
		if failed || size == 0 {
			return nil, false
		}
		for pos+size > len(cur) {
			switch {
			case idx < len(c.chunks):
				raw, err := c.chunkData(idx)
				if err != nil {
					failed = true
					return nil, false
				}
				cur, pos = raw, 0
				idx++
			case idx == len(c.chunks):
				cur, pos = c.active, 0
				idx++
			default:
				return nil, false
			}
		}
		v := c.dtype.decodeScalar(cur[pos:])
		pos += size
		return v, true
	})
}
