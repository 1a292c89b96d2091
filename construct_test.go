package slab

import (
	"context"
	"errors"
	"testing"
)

func TestConstructBufferPassThrough(t *testing.T) {
	b, err := BufferFromValue([]int64{1, 2, 3}, DTypeInvalid)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Construct(b, nil, DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if a.Descriptor() != DataDescriptor(b) {
		t.Error("buffer input should be wrapped without copy")
	}
	if got := a.DataShape().String(); got != "3 * int64" {
		t.Errorf("unexpected datashape %q", got)
	}
}

func TestConstructChunkedPassThrough(t *testing.T) {
	c, err := ChunkedFromValue([]float64{1, 2}, DTypeInvalid, DefaultChunkedConfig())
	if err != nil {
		t.Fatal(err)
	}
	// Capabilities do not trigger a conversion for an existing store.
	a, err := Construct(c, nil, DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if a.Descriptor() != DataDescriptor(c) {
		t.Error("chunked input should be wrapped without copy")
	}
}

// fakeDescriptor is a foreign store that satisfies DataDescriptor without
// being one of the built-in engines.
type fakeDescriptor struct {
	ds DataShape
}

func (f *fakeDescriptor) DataShape() DataShape { return f.ds }
func (f *fakeDescriptor) DType() DType         { return f.ds.DType() }
func (f *fakeDescriptor) Len() int             { return 1 }
func (f *fakeDescriptor) Bytes() ([]byte, error) {
	return f.ds.DType().appendScalar(nil, 7)
}
func (f *fakeDescriptor) Values() ValueIter { return SliceIter(int64(7)) }

func TestConstructForeignDescriptorIdentity(t *testing.T) {
	fd := &fakeDescriptor{ds: ScalarShape(DTypeInt64)}
	a, err := Construct(fd, nil, Capabilities{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Descriptor() != DataDescriptor(fd) {
		t.Error("foreign descriptor should pass through unchanged")
	}
}

func TestConstructDeclaredShapeValidated(t *testing.T) {
	b, _ := BufferFromValue([]int64{1, 2, 3}, DTypeInvalid)

	if _, err := Construct(b, "3 * int64", DefaultCapabilities()); err != nil {
		t.Errorf("matching declaration should pass: %v", err)
	}
	if _, err := Construct(b, "var * int64", DefaultCapabilities()); err != nil {
		t.Errorf("unbound outer declaration should match any extent: %v", err)
	}

	var ce *CoercionError
	if _, err := Construct(b, "4 * int64", DefaultCapabilities()); !errors.As(err, &ce) {
		t.Errorf("extent mismatch should fail with CoercionError, got %v", err)
	}
	if _, err := Construct(b, "3 * float64", DefaultCapabilities()); !errors.As(err, &ce) {
		t.Errorf("dtype mismatch should fail with CoercionError, got %v", err)
	}
	if _, err := Construct(b, "int64", DefaultCapabilities()); !errors.As(err, &ce) {
		t.Errorf("dimensionality mismatch should fail with CoercionError, got %v", err)
	}
}

func TestConstructDeclaredDTypeCoerces(t *testing.T) {
	a, err := Construct([]float64{1.5, 2.5}, "2 * int32", DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if a.DType() != DTypeInt32 {
		t.Errorf("expected int32, got %s", a.DType())
	}
	v, err := a.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(1) {
		t.Errorf("expected truncated 1, got %v", v)
	}
}

func TestConstructParseErrorPropagates(t *testing.T) {
	var pe *ParseError
	if _, err := Construct(1, "3 * in64", DefaultCapabilities()); !errors.As(err, &pe) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestConstructScalar(t *testing.T) {
	a, err := Construct(42, nil, DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if a.DataShape().NDim() != 0 {
		t.Errorf("expected 0-dimensional array, got %s", a.DataShape())
	}
	v, err := a.At()
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(42) {
		t.Errorf("expected 42, got %v", v)
	}
	if _, ok := a.Descriptor().(*Buffer); !ok {
		t.Errorf("default capabilities should pick the buffer backend, got %T", a.Descriptor())
	}
}

func TestConstructGenericCompress(t *testing.T) {
	a, err := Construct([]int64{1, 2, 3}, nil, Capabilities{Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Descriptor().(*ChunkedArray); !ok {
		t.Errorf("compress capability should pick the chunked backend, got %T", a.Descriptor())
	}
}

func TestConstructCapabilityPriority(t *testing.T) {
	// Write efficiency is checked before compression.
	a, err := Construct([]int64{1}, nil, Capabilities{EfficientWrite: true, Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Descriptor().(*Buffer); !ok {
		t.Errorf("expected buffer backend to win, got %T", a.Descriptor())
	}
}

func TestConstructNoCapability(t *testing.T) {
	if _, err := Construct(struct{ X int }{1}, nil, Capabilities{}); !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("expected ErrUnsupportedInput, got %v", err)
	}
}

func TestConstructIteratorEfficientWrite(t *testing.T) {
	calls := 0
	it := FuncIter(func() (any, bool) {
		if calls >= 50 {
			return nil, false
		}
		calls++
		return int64(calls), true
	})
	a, err := Construct(it, nil, Capabilities{EfficientWrite: true})
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 50 {
		t.Errorf("expected 50 elements, got %d", a.Len())
	}
	if calls != 50 {
		t.Errorf("producer consumed %d times, expected 50", calls)
	}
	if _, ok := a.Descriptor().(*Buffer); !ok {
		t.Errorf("expected buffer backend, got %T", a.Descriptor())
	}
}

func TestConstructIteratorCompress(t *testing.T) {
	want := []float64{3.5, 1.25, -7, 0, 99}
	a, err := Construct(SliceIter(3.5, 1.25, -7.0, 0.0, 99.0), nil, Capabilities{Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Descriptor().(*ChunkedArray); !ok {
		t.Fatalf("expected chunked backend, got %T", a.Descriptor())
	}
	it := a.Values()
	for i, w := range want {
		v, ok := it.Next()
		if !ok || v != w {
			t.Errorf("element %d: expected %v, got %v (ok=%v)", i, w, v, ok)
		}
	}
}

func TestConstructIteratorNoCapability(t *testing.T) {
	if _, err := Construct(SliceIter(1), nil, Capabilities{}); !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("expected ErrUnsupportedInput for iterator without capability, got %v", err)
	}
}

func TestConstructContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	it := FuncIter(func() (any, bool) {
		n++
		if n == 10 {
			cancel()
		}
		return n, true
	})
	a, err := ConstructContext(ctx, it, nil, DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 10 {
		t.Errorf("expected truncation at 10 elements, got %d", a.Len())
	}
}

func TestZerosOnes(t *testing.T) {
	z, err := Zeros("2 * 3 * int64", DefaultCapabilities())
	if err != nil {
		t.Fatal(err)
	}
	if got := z.DataShape().String(); got != "2 * 3 * int64" {
		t.Errorf("unexpected datashape %q", got)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			v, err := z.At(i, j)
			if err != nil {
				t.Fatal(err)
			}
			if v != int64(0) {
				t.Errorf("zeros[%d][%d] = %v", i, j, v)
			}
		}
	}

	o, err := Ones("4 * float64", Capabilities{Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := o.Descriptor().(*ChunkedArray); !ok {
		t.Errorf("expected chunked backend, got %T", o.Descriptor())
	}
	for i := 0; i < 4; i++ {
		v, err := o.At(i)
		if err != nil {
			t.Fatal(err)
		}
		if v != float64(1) {
			t.Errorf("ones[%d] = %v", i, v)
		}
	}
}

func TestZerosMissingShape(t *testing.T) {
	if _, err := Zeros(nil, DefaultCapabilities()); !errors.Is(err, ErrMissingShape) {
		t.Errorf("expected ErrMissingShape, got %v", err)
	}
	if _, err := Ones(nil, DefaultCapabilities()); !errors.Is(err, ErrMissingShape) {
		t.Errorf("expected ErrMissingShape, got %v", err)
	}
}

func TestZerosUnboundShape(t *testing.T) {
	if _, err := Zeros("var * int64", DefaultCapabilities()); err == nil {
		t.Error("unbound dimension should fail the fill constructor")
	}
}

func TestFillNoCapability(t *testing.T) {
	if _, err := Zeros("2 * int64", Capabilities{}); !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("expected ErrUnsupportedInput, got %v", err)
	}
}

func TestOpenFromURI(t *testing.T) {
	if _, err := OpenFromURI("file:///tmp/a.slab"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	a, err := New([]float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Descriptor().(*Buffer); !ok {
		t.Errorf("New should default to the buffer backend, got %T", a.Descriptor())
	}
}

func TestDefaultCapabilitiesFresh(t *testing.T) {
	c1 := DefaultCapabilities()
	c1.EfficientWrite = false
	if !DefaultCapabilities().EfficientWrite {
		t.Error("DefaultCapabilities must return a fresh value")
	}
}

func TestResolveDataShapeForms(t *testing.T) {
	ds, _ := ParseDataShape("2 * int64")
	if _, err := Construct([]int64{1, 2}, ds, DefaultCapabilities()); err != nil {
		t.Errorf("DataShape value form failed: %v", err)
	}
	if _, err := Construct([]int64{1, 2}, &ds, DefaultCapabilities()); err != nil {
		t.Errorf("*DataShape form failed: %v", err)
	}
	if _, err := Construct([]int64{1, 2}, 17, DefaultCapabilities()); !errors.Is(err, ErrUnsupportedInput) {
		t.Errorf("bogus dshape argument should fail, got %v", err)
	}
}

func TestConstructorConfig(t *testing.T) {
	cn := NewConstructor(Config{Chunked: ChunkedConfig{ChunkLen: 8, Codec: CodecZstd, Checksums: true}})
	a, err := cn.Construct(make([]int64, 100), nil, Capabilities{Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := a.Descriptor().(*ChunkedArray)
	if !ok {
		t.Fatalf("expected chunked backend, got %T", a.Descriptor())
	}
	if c.cfg.Codec != CodecZstd {
		t.Errorf("expected zstd codec, got %s", c.cfg.Codec)
	}
	if len(c.chunks) != 12 {
		t.Errorf("expected 12 sealed chunks of 8 elements, got %d", len(c.chunks))
	}
}
