package slab

// DataDescriptor is the uniform view over a backing store. Every storage
// engine variant exposes the same shape, element type, flat byte and
// iteration access, so callers never depend on which backend holds the data.
//
// Any foreign implementation of this interface may be passed to Construct
// and is wrapped without coercion.
type DataDescriptor interface {
	// DataShape describes the array's dimensionality and element type.
	DataShape() DataShape

	// DType returns the element type tag.
	DType() DType

	// Len returns the total number of elements (1 for a 0-dimensional array).
	Len() int

	// Bytes returns the flat little-endian encoding of all elements in
	// row-major order. The returned slice is a read-only view; for a
	// compressed store this materializes the decompressed contents.
	Bytes() ([]byte, error)

	// Values returns a one-shot iterator over the decoded elements in
	// row-major order.
	Values() ValueIter
}

// Compile-time backend checks.
var (
	_ DataDescriptor = (*Buffer)(nil)
	_ DataDescriptor = (*ChunkedArray)(nil)
)
