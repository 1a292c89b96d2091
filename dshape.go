package slab

import (
	"fmt"
	"strconv"
	"strings"
)

// Dim is a single dimension of a datashape. Either Extent holds a fixed
// non-negative size, or Unbound marks a streaming dimension whose size is not
// known up front.
type Dim struct {
	Extent  int
	Unbound bool
}

func (d Dim) String() string {
	if d.Unbound {
		return "var"
	}
	return strconv.Itoa(d.Extent)
}

// DataShape describes the dimensionality and element type of an array. It is
// an immutable value: the dimension slice is copied on construction and only
// exposed through copies. At most the outermost dimension may be unbound.
type DataShape struct {
	dims  []Dim
	dtype DType
}

// NewDataShape builds a datashape from explicit dimensions, outermost first.
func NewDataShape(dims []Dim, dt DType) (DataShape, error) {
	if dt == DTypeInvalid {
		return DataShape{}, fmt.Errorf("datashape needs a concrete element type")
	}
	for i, d := range dims {
		if d.Unbound && i != 0 {
			return DataShape{}, fmt.Errorf("only the outermost dimension may be unbound")
		}
		if !d.Unbound && d.Extent < 0 {
			return DataShape{}, fmt.Errorf("negative extent %d", d.Extent)
		}
	}
	return DataShape{dims: append([]Dim(nil), dims...), dtype: dt}, nil
}

// ScalarShape is the datashape of a 0-dimensional array.
func ScalarShape(dt DType) DataShape {
	return DataShape{dtype: dt}
}

// Dims returns a copy of the dimensions, outermost first.
func (ds DataShape) Dims() []Dim {
	return append([]Dim(nil), ds.dims...)
}

// NDim returns the number of dimensions.
func (ds DataShape) NDim() int {
	return len(ds.dims)
}

// DType returns the element type tag.
func (ds DataShape) DType() DType {
	return ds.dtype
}

func (ds DataShape) String() string {
	if len(ds.dims) == 0 {
		return ds.dtype.String()
	}
	parts := make([]string, 0, len(ds.dims)+1)
	for _, d := range ds.dims {
		parts = append(parts, d.String())
	}
	parts = append(parts, ds.dtype.String())
	return strings.Join(parts, " * ")
}

// FixedShape projects the datashape onto a concrete extent tuple. It fails if
// any dimension is unbound; the fill constructors require fully fixed shapes.
func (ds DataShape) FixedShape() ([]int, DType, error) {
	shape := make([]int, len(ds.dims))
	for i, d := range ds.dims {
		if d.Unbound {
			return nil, DTypeInvalid, fmt.Errorf("datashape %s has an unbound dimension", ds)
		}
		shape[i] = d.Extent
	}
	return shape, ds.dtype, nil
}

// ParseDataShape parses datashape notation: '*'-separated dimension extents
// followed by an element type, e.g. "3 * 4 * int64" or "var * float64". The
// keyword "var" marks the unbound outermost dimension. A bare element type
// denotes a 0-dimensional (scalar) shape.
func ParseDataShape(s string) (DataShape, error) {
	tokens := strings.Split(s, "*")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	if len(tokens) == 0 || tokens[len(tokens)-1] == "" {
		return DataShape{}, &ParseError{Expr: s, Pos: len(tokens) - 1, Message: "missing element type"}
	}
	dt, err := ParseDType(tokens[len(tokens)-1])
	if err != nil {
		return DataShape{}, &ParseError{Expr: s, Pos: len(tokens) - 1, Message: err.Error()}
	}
	dims := make([]Dim, 0, len(tokens)-1)
	for i, tok := range tokens[:len(tokens)-1] {
		if tok == "var" {
			if i != 0 {
				return DataShape{}, &ParseError{Expr: s, Pos: i, Message: "only the outermost dimension may be unbound"}
			}
			dims = append(dims, Dim{Unbound: true})
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return DataShape{}, &ParseError{Expr: s, Pos: i, Message: fmt.Sprintf("invalid extent %q", tok)}
		}
		dims = append(dims, Dim{Extent: n})
	}
	return DataShape{dims: dims, dtype: dt}, nil
}

// fixedDataShape builds a datashape from a concrete extent tuple. Internal
// helper for the storage engines, which only ever carry fixed shapes.
func fixedDataShape(shape []int, dt DType) DataShape {
	dims := make([]Dim, len(shape))
	for i, n := range shape {
		dims[i] = Dim{Extent: n}
	}
	return DataShape{dims: dims, dtype: dt}
}

func elemCount(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
