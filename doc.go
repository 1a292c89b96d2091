// Package slab constructs in-memory arrays on top of interchangeable storage
// backends.
//
// Callers declare what they want from the storage — write efficiency or
// compression — and the construction entry points pick the backend: a
// contiguous native buffer optimized for appends, or a chunked store that
// compresses sealed chunks with a selectable codec. Whatever backend is
// chosen, the result is wrapped in a uniform [DataDescriptor] and returned as
// an [Array] handle with consistent shape and element-type metadata.
//
// # Basic Usage
//
// Construct an array from native Go data:
//
//	a, err := slab.Construct([][]int64{{1, 2}, {3, 4}}, nil, slab.DefaultCapabilities())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(a.DataShape()) // 2 * 2 * int64
//
// Stream a producer of unknown length into a compressed store:
//
//	a, err := slab.Construct(iter, nil, slab.Capabilities{Compress: true})
//
// Declare a datashape in text form; the result is validated against it:
//
//	a, err := slab.Construct(data, "3 * 4 * float64", slab.DefaultCapabilities())
//
// Allocate filled arrays:
//
//	z, err := slab.Zeros("10 * 10 * int32", slab.DefaultCapabilities())
//	o, err := slab.Ones("4 * float64", slab.Capabilities{Compress: true})
//
// # Inputs
//
// Construct accepts an existing DataDescriptor (wrapped unchanged), a
// *Buffer or *ChunkedArray (wrapped without copy), a one-shot [ValueIter]
// (consumed exactly once, length never assumed), or any Go scalar or nested
// slice (eagerly copied into the selected backend).
//
// # Configuration
//
// Use [Config] to tune the chunked engine and wire logging:
//
//	cfg := slab.Config{
//	    Chunked: slab.ChunkedConfig{
//	        ChunkLen:  8192,
//	        Codec:     slab.CodecZstd,
//	        Checksums: true,
//	    },
//	}
//	cn := slab.NewConstructor(cfg)
//	a, err := cn.Construct(data, nil, slab.Capabilities{Compress: true})
//
// Configuration can also be loaded from YAML via [LoadConfigFile].
package slab
