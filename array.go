package slab

import "fmt"

// Array is the user-facing handle over exactly one data descriptor. It
// carries no state of its own beyond a lazily materialized flat view used for
// element access, so it stays valid regardless of which backend holds the
// data.
type Array struct {
	dd   DataDescriptor
	flat []byte
}

func newArray(dd DataDescriptor) *Array {
	return &Array{dd: dd}
}

// Descriptor returns the wrapped data descriptor.
func (a *Array) Descriptor() DataDescriptor {
	return a.dd
}

// DataShape describes the array's dimensionality and element type.
func (a *Array) DataShape() DataShape {
	return a.dd.DataShape()
}

// DType returns the element type tag.
func (a *Array) DType() DType {
	return a.dd.DType()
}

// Len returns the total number of elements.
func (a *Array) Len() int {
	return a.dd.Len()
}

// Values returns a one-shot iterator over the decoded elements in row-major
// order.
func (a *Array) Values() ValueIter {
	return a.dd.Values()
}

// At returns the element at the given multi-index; a 0-dimensional array
// takes no indices. The first call materializes a flat view of the store and
// caches it, so At must not be mixed with appends to the underlying store.
func (a *Array) At(indices ...int) (any, error) {
	shape, dt, err := a.dd.DataShape().FixedShape()
	if err != nil {
		return nil, err
	}
	if len(indices) != len(shape) {
		return nil, fmt.Errorf("got %d indices for %d dimensions", len(indices), len(shape))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return nil, fmt.Errorf("index %d out of range for dimension %d (extent %d)", idx, i, shape[i])
		}
		flat = flat*shape[i] + idx
	}
	if a.flat == nil {
		a.flat, err = a.dd.Bytes()
		if err != nil {
			return nil, err
		}
	}
	off := flat * dt.Size()
	if off+dt.Size() > len(a.flat) {
		return nil, fmt.Errorf("element %d beyond store of %d bytes", flat, len(a.flat))
	}
	return dt.decodeScalar(a.flat[off:]), nil
}

func (a *Array) String() string {
	return fmt.Sprintf("Array(%s)", a.dd.DataShape())
}
