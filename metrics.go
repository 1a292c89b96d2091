package slab

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time snapshot of the package-wide construction
// counters.
type Stats struct {
	// BufferArrays counts arrays constructed on the native buffer engine.
	BufferArrays uint64
	// ChunkedArrays counts arrays constructed on the chunked engine.
	ChunkedArrays uint64
	// WrappedArrays counts pass-through wraps of existing descriptors.
	WrappedArrays uint64
	// Elements counts elements materialized across all constructions.
	Elements uint64
	// ChunkRawBytes counts bytes entering chunk compression.
	ChunkRawBytes uint64
	// ChunkCompressedBytes counts bytes retained after chunk compression.
	ChunkCompressedBytes uint64
}

type counters struct {
	bufferArrays  atomic.Uint64
	chunkedArrays atomic.Uint64
	wrappedArrays atomic.Uint64
	elements      atomic.Uint64
	chunkRaw      atomic.Uint64
	chunkComp     atomic.Uint64
}

var stats counters

// GetStats returns a snapshot of the construction counters.
func GetStats() Stats {
	return Stats{
		BufferArrays:         stats.bufferArrays.Load(),
		ChunkedArrays:        stats.chunkedArrays.Load(),
		WrappedArrays:        stats.wrappedArrays.Load(),
		Elements:             stats.elements.Load(),
		ChunkRawBytes:        stats.chunkRaw.Load(),
		ChunkCompressedBytes: stats.chunkComp.Load(),
	}
}

// Prometheus collectors mirroring the counters. They are not registered
// anywhere by default; see RegisterMetrics.
var (
	promConstructions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slab",
		Name:      "constructions_total",
		Help:      "Arrays constructed, by backend.",
	}, []string{"backend"})

	promElements = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slab",
		Name:      "elements_total",
		Help:      "Elements materialized across all constructions.",
	})

	promChunkBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slab",
		Name:      "chunk_bytes_total",
		Help:      "Chunk bytes before and after compression.",
	}, []string{"state"})
)

// RegisterMetrics registers the package collectors with reg, typically a
// prometheus.Registry owned by the host application.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{promConstructions, promElements, promChunkBytes} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func recordConstruction(backend string, elements int) {
	switch backend {
	case "buffer":
		stats.bufferArrays.Add(1)
	case "chunked":
		stats.chunkedArrays.Add(1)
	case "wrapped":
		stats.wrappedArrays.Add(1)
	}
	stats.elements.Add(uint64(elements))
	promConstructions.WithLabelValues(backend).Inc()
	promElements.Add(float64(elements))
}

func recordChunk(rawBytes, compressedBytes int) {
	stats.chunkRaw.Add(uint64(rawBytes))
	stats.chunkComp.Add(uint64(compressedBytes))
	promChunkBytes.WithLabelValues("raw").Add(float64(rawBytes))
	promChunkBytes.WithLabelValues("compressed").Add(float64(compressedBytes))
}
