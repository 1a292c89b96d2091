package slab

import (
	"bytes"
	"context"
	"fmt"
)

// Buffer is the native in-memory store: one contiguous little-endian backing
// slice in row-major order, optimized for append-heavy writes.
type Buffer struct {
	data  []byte
	shape []int
	dtype DType
}

// BufferFromValue materializes a native Go value (a scalar or an arbitrarily
// nested slice) into a buffer. The shape is taken from the nesting; the
// element type is dt, or inferred from the first leaf when dt is
// DTypeInvalid. This is an eager copy, not a view over v.
func BufferFromValue(v any, dt DType) (*Buffer, error) {
	shape := valueShape(v)
	if dt == DTypeInvalid {
		var err error
		dt, err = inferValueDType(v)
		if err != nil {
			return nil, err
		}
	}
	b := &Buffer{
		data:  make([]byte, 0, elemCount(shape)*dt.Size()),
		shape: shape,
		dtype: dt,
	}
	if err := flattenInto(b, v, shape); err != nil {
		return nil, err
	}
	return b, nil
}

// BufferFromIterator consumes a one-shot producer to exhaustion into a
// one-dimensional buffer. The element type is dt, or inferred from the first
// produced value; an empty producer with no declared type defaults to
// float64. Context cancellation stops consumption early and yields the
// truncated buffer.
func BufferFromIterator(ctx context.Context, it ValueIter, dt DType) (*Buffer, error) {
	b := &Buffer{shape: []int{0}, dtype: dt}
	for ctx.Err() == nil {
		v, ok := it.Next()
		if !ok {
			break
		}
		if b.dtype == DTypeInvalid {
			inferred, ok := dtypeOf(v)
			if !ok {
				return nil, &CoercionError{Want: "numeric or bool element", Got: fmt.Sprintf("%T", v)}
			}
			b.dtype = inferred
		}
		if err := b.appendScalar(v); err != nil {
			return nil, err
		}
		b.shape[0]++
	}
	if b.dtype == DTypeInvalid {
		b.dtype = DTypeFloat64
	}
	return b, nil
}

// NewFilledBuffer allocates a buffer of the given fixed shape with every
// element set to fill.
func NewFilledBuffer(shape []int, dt DType, fill float64) (*Buffer, error) {
	one, err := encodeFill(dt, fill)
	if err != nil {
		return nil, err
	}
	b := &Buffer{shape: append([]int(nil), shape...), dtype: dt}
	if n := elemCount(shape); n > 0 {
		b.data = bytes.Repeat(one, n)
	}
	return b, nil
}

func encodeFill(dt DType, fill float64) ([]byte, error) {
	if dt == DTypeInvalid {
		return nil, fmt.Errorf("fill requires a concrete element type")
	}
	if dt == DTypeBool {
		return dt.appendScalar(nil, fill != 0)
	}
	return dt.appendScalar(nil, fill)
}

// Append adds one element to a one-dimensional buffer, growing the outermost
// extent. Amortized O(1).
func (b *Buffer) Append(v any) error {
	if len(b.shape) != 1 {
		return fmt.Errorf("append requires a one-dimensional buffer, have %d dims", len(b.shape))
	}
	if err := b.appendScalar(v); err != nil {
		return err
	}
	b.shape[0]++
	return nil
}

func (b *Buffer) appendScalar(v any) error {
	data, err := b.dtype.appendScalar(b.data, v)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

// DataShape describes the buffer's fixed shape and element type.
func (b *Buffer) DataShape() DataShape {
	return fixedDataShape(b.shape, b.dtype)
}

// DType returns the element type tag.
func (b *Buffer) DType() DType {
	return b.dtype
}

// Len returns the number of elements.
func (b *Buffer) Len() int {
	return elemCount(b.shape)
}

// Bytes returns the backing slice directly. The caller must treat it as
// read-only.
func (b *Buffer) Bytes() ([]byte, error) {
	return b.data, nil
}

// Values returns a one-shot iterator over the decoded elements in row-major
// order.
func (b *Buffer) Values() ValueIter {
	pos := 0
	size := b.dtype.Size()
	return FuncIter(func() (any, bool) {
		if size == 0 || pos+size > len(b.data) {
			return nil, false
		}
		v := b.dtype.decodeScalar(b.data[pos:])
		pos += size
		return v, true
	})
}
