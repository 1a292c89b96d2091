package slab

import (
	"context"
	"fmt"
)

// Capabilities declares the caller's storage preferences for a construction.
// Exactly one capability decides the backend; when both are set,
// EfficientWrite wins.
type Capabilities struct {
	// EfficientWrite selects the native buffer engine.
	EfficientWrite bool
	// Compress selects the compressed chunked engine.
	Compress bool
}

// DefaultCapabilities returns the default preference: optimize for writes.
// A fresh value is returned on every call.
func DefaultCapabilities() Capabilities {
	return Capabilities{EfficientWrite: true}
}

// inputKind is the closed set of input classes the resolver accepts.
// Classification happens once at the call boundary.
type inputKind int

const (
	kindGeneric inputKind = iota
	kindBuffer
	kindChunked
	kindDescriptor
	kindIterator
)

func classify(obj any) inputKind {
	switch obj.(type) {
	case *Buffer:
		return kindBuffer
	case *ChunkedArray:
		return kindChunked
	case DataDescriptor:
		return kindDescriptor
	case ValueIter:
		return kindIterator
	default:
		return kindGeneric
	}
}

// Constructor binds a Config to the construction entry points. The zero
// value uses defaults; package-level Construct, Zeros and Ones delegate to a
// shared default Constructor.
type Constructor struct {
	cfg Config
}

// NewConstructor returns construction entry points tuned by cfg. A zero
// Config means DefaultConfig.
func NewConstructor(cfg Config) *Constructor {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Constructor{cfg: cfg}
}

var defaultConstructor = NewConstructor(Config{})

func (cn *Constructor) chunkedConfig() ChunkedConfig {
	cfg := cn.cfg.Chunked.withDefaults()
	if cfg.Logger == nil {
		cfg.Logger = cn.cfg.Logger
	}
	return cfg
}

// Construct builds an array from obj under the declared capabilities. See
// ConstructContext.
func (cn *Constructor) Construct(obj, dshape any, caps Capabilities) (*Array, error) {
	return cn.ConstructContext(context.Background(), obj, dshape, caps)
}

// ConstructContext builds an array from obj. obj may be an existing data
// descriptor (wrapped unchanged), a native *Buffer or *ChunkedArray (wrapped
// without copy), a one-shot ValueIter (consumed to exhaustion), or any Go
// scalar or nested slice (eagerly materialized into the backend the
// capabilities select).
//
// dshape optionally declares the result's datashape, given as a string in
// datashape notation, a DataShape, or nil. A declared datashape is validated
// against the result in every branch; a mismatch fails with a CoercionError.
//
// ctx bounds iterator consumption: cancellation stops the producer early and
// yields a truncated store.
func (cn *Constructor) ConstructContext(ctx context.Context, obj, dshape any, caps Capabilities) (*Array, error) {
	ds, err := resolveDataShape(dshape)
	if err != nil {
		return nil, err
	}
	switch classify(obj) {
	case kindBuffer:
		b := obj.(*Buffer)
		if err := validateDeclared(ds, b); err != nil {
			return nil, err
		}
		recordConstruction("buffer", b.Len())
		return newArray(b), nil
	case kindChunked:
		c := obj.(*ChunkedArray)
		if err := validateDeclared(ds, c); err != nil {
			return nil, err
		}
		recordConstruction("chunked", c.Len())
		return newArray(c), nil
	case kindDescriptor:
		dd := obj.(DataDescriptor)
		if err := validateDeclared(ds, dd); err != nil {
			return nil, err
		}
		recordConstruction("wrapped", dd.Len())
		return newArray(dd), nil
	case kindIterator:
		return cn.fromIterator(ctx, obj.(ValueIter), ds, caps)
	default:
		return cn.fromValue(obj, ds, caps)
	}
}

// fromValue eagerly materializes a generic Go value into the backend the
// capabilities select. Priority is fixed: write efficiency before
// compression.
func (cn *Constructor) fromValue(obj any, ds *DataShape, caps Capabilities) (*Array, error) {
	switch {
	case caps.EfficientWrite:
		b, err := BufferFromValue(obj, declaredDType(ds))
		if err != nil {
			return nil, err
		}
		if err := validateDeclared(ds, b); err != nil {
			return nil, err
		}
		recordConstruction("buffer", b.Len())
		return newArray(b), nil
	case caps.Compress:
		c, err := ChunkedFromValue(obj, declaredDType(ds), cn.chunkedConfig())
		if err != nil {
			return nil, err
		}
		if err := validateDeclared(ds, c); err != nil {
			return nil, err
		}
		recordConstruction("chunked", c.Len())
		return newArray(c), nil
	default:
		return nil, fmt.Errorf("%w: no capability matched for %T", ErrUnsupportedInput, obj)
	}
}

// fromIterator materializes a one-shot producer. The producer is consumed
// exactly once; its length is never assumed, so the chunked path streams with
// the UnknownCount sentinel.
func (cn *Constructor) fromIterator(ctx context.Context, it ValueIter, ds *DataShape, caps Capabilities) (*Array, error) {
	switch {
	case caps.EfficientWrite:
		b, err := BufferFromIterator(ctx, it, declaredDType(ds))
		if err != nil {
			return nil, err
		}
		if err := validateDeclared(ds, b); err != nil {
			return nil, err
		}
		recordConstruction("buffer", b.Len())
		return newArray(b), nil
	case caps.Compress:
		c, err := ChunkedFromIterator(ctx, it, declaredDType(ds), UnknownCount, cn.chunkedConfig())
		if err != nil {
			return nil, err
		}
		if err := validateDeclared(ds, c); err != nil {
			return nil, err
		}
		recordConstruction("chunked", c.Len())
		return newArray(c), nil
	default:
		return nil, fmt.Errorf("%w: no capability matched for iterator input", ErrUnsupportedInput)
	}
}

// Zeros allocates an array of the given datashape filled with zeros. The
// datashape is required and must be fully fixed.
func (cn *Constructor) Zeros(dshape any, caps Capabilities) (*Array, error) {
	return cn.fill(dshape, caps, 0)
}

// Ones allocates an array of the given datashape filled with ones. The
// datashape is required and must be fully fixed.
func (cn *Constructor) Ones(dshape any, caps Capabilities) (*Array, error) {
	return cn.fill(dshape, caps, 1)
}

func (cn *Constructor) fill(dshape any, caps Capabilities, fill float64) (*Array, error) {
	ds, err := resolveDataShape(dshape)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, ErrMissingShape
	}
	shape, dt, err := ds.FixedShape()
	if err != nil {
		return nil, err
	}
	switch {
	case caps.EfficientWrite:
		b, err := NewFilledBuffer(shape, dt, fill)
		if err != nil {
			return nil, err
		}
		recordConstruction("buffer", b.Len())
		return newArray(b), nil
	case caps.Compress:
		c, err := NewFilledChunked(shape, dt, fill, cn.chunkedConfig())
		if err != nil {
			return nil, err
		}
		recordConstruction("chunked", c.Len())
		return newArray(c), nil
	default:
		return nil, fmt.Errorf("%w: no capability matched for fill", ErrUnsupportedInput)
	}
}

// Construct builds an array from obj using the default configuration.
func Construct(obj, dshape any, caps Capabilities) (*Array, error) {
	return defaultConstructor.Construct(obj, dshape, caps)
}

// ConstructContext builds an array from obj using the default configuration,
// bounding iterator consumption by ctx.
func ConstructContext(ctx context.Context, obj, dshape any, caps Capabilities) (*Array, error) {
	return defaultConstructor.ConstructContext(ctx, obj, dshape, caps)
}

// New builds an array from obj with an inferred datashape and the default
// capabilities.
func New(obj any) (*Array, error) {
	return defaultConstructor.Construct(obj, nil, DefaultCapabilities())
}

// Zeros allocates a zero-filled array using the default configuration.
func Zeros(dshape any, caps Capabilities) (*Array, error) {
	return defaultConstructor.Zeros(dshape, caps)
}

// Ones allocates a one-filled array using the default configuration.
func Ones(dshape any, caps Capabilities) (*Array, error) {
	return defaultConstructor.Ones(dshape, caps)
}

// OpenFromURI will open an array persisted at uri. Persistence is not part
// of this package yet; the entry point is reserved and always fails with
// ErrNotImplemented.
func OpenFromURI(uri string) (*Array, error) {
	return nil, fmt.Errorf("open %q: %w", uri, ErrNotImplemented)
}

// resolveDataShape normalizes the dshape argument: nil means absent, a
// string is parsed, a DataShape is used as-is.
func resolveDataShape(dshape any) (*DataShape, error) {
	switch v := dshape.(type) {
	case nil:
		return nil, nil
	case string:
		ds, err := ParseDataShape(v)
		if err != nil {
			return nil, err
		}
		return &ds, nil
	case DataShape:
		return &v, nil
	case *DataShape:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: datashape must be a string or DataShape, got %T", ErrUnsupportedInput, dshape)
	}
}

func declaredDType(ds *DataShape) DType {
	if ds == nil {
		return DTypeInvalid
	}
	return ds.DType()
}

// validateDeclared checks a constructed or wrapped store against an
// explicitly declared datashape. The declaration is never silently dropped:
// any element-type or fixed-extent mismatch fails the construction.
func validateDeclared(ds *DataShape, dd DataDescriptor) error {
	if ds == nil {
		return nil
	}
	got := dd.DataShape()
	if ds.DType() != got.DType() {
		return &CoercionError{Want: ds.String(), Got: got.String()}
	}
	want, have := ds.Dims(), got.Dims()
	if len(want) != len(have) {
		return &CoercionError{Want: ds.String(), Got: got.String()}
	}
	for i := range want {
		if want[i].Unbound {
			continue
		}
		if have[i].Unbound || want[i].Extent != have[i].Extent {
			return &CoercionError{Want: ds.String(), Got: got.String()}
		}
	}
	return nil
}
