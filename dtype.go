package slab

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DType identifies the element type of an array. The set is closed: every
// backing store encodes elements as fixed-width little-endian values, so
// variable-width types are not representable.
type DType int

const (
	// DTypeInvalid is the zero value. Constructors treat it as "infer the
	// element type from the input data".
	DTypeInvalid DType = iota
	// DTypeBool is a single-byte boolean.
	DTypeBool
	// DTypeInt8 is a signed 8-bit integer.
	DTypeInt8
	// DTypeInt16 is a signed 16-bit integer.
	DTypeInt16
	// DTypeInt32 is a signed 32-bit integer.
	DTypeInt32
	// DTypeInt64 is a signed 64-bit integer.
	DTypeInt64
	// DTypeUint8 is an unsigned 8-bit integer.
	DTypeUint8
	// DTypeUint16 is an unsigned 16-bit integer.
	DTypeUint16
	// DTypeUint32 is an unsigned 32-bit integer.
	DTypeUint32
	// DTypeUint64 is an unsigned 64-bit integer.
	DTypeUint64
	// DTypeFloat32 is an IEEE 754 single-precision float.
	DTypeFloat32
	// DTypeFloat64 is an IEEE 754 double-precision float.
	DTypeFloat64
)

func (dt DType) String() string {
	switch dt {
	case DTypeBool:
		return "bool"
	case DTypeInt8:
		return "int8"
	case DTypeInt16:
		return "int16"
	case DTypeInt32:
		return "int32"
	case DTypeInt64:
		return "int64"
	case DTypeUint8:
		return "uint8"
	case DTypeUint16:
		return "uint16"
	case DTypeUint32:
		return "uint32"
	case DTypeUint64:
		return "uint64"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	default:
		return "invalid"
	}
}

// Size returns the encoded width of one element in bytes.
func (dt DType) Size() int {
	switch dt {
	case DTypeBool, DTypeInt8, DTypeUint8:
		return 1
	case DTypeInt16, DTypeUint16:
		return 2
	case DTypeInt32, DTypeUint32, DTypeFloat32:
		return 4
	case DTypeInt64, DTypeUint64, DTypeFloat64:
		return 8
	default:
		return 0
	}
}

// ParseDType maps a type name from datashape notation to its tag.
func ParseDType(s string) (DType, error) {
	switch s {
	case "bool":
		return DTypeBool, nil
	case "int8":
		return DTypeInt8, nil
	case "int16":
		return DTypeInt16, nil
	case "int32":
		return DTypeInt32, nil
	case "int64":
		return DTypeInt64, nil
	case "uint8":
		return DTypeUint8, nil
	case "uint16":
		return DTypeUint16, nil
	case "uint32":
		return DTypeUint32, nil
	case "uint64":
		return DTypeUint64, nil
	case "float32":
		return DTypeFloat32, nil
	case "float64":
		return DTypeFloat64, nil
	default:
		return DTypeInvalid, fmt.Errorf("unknown element type %q", s)
	}
}

// appendScalar appends the little-endian encoding of v to dst. The value is
// coerced to dt first; a value that cannot be represented as dt at all
// produces a CoercionError.
func (dt DType) appendScalar(dst []byte, v any) ([]byte, error) {
	switch dt {
	case DTypeBool:
		b, ok := asBool(v)
		if !ok {
			return nil, coercionError(dt, v)
		}
		if b {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case DTypeInt8, DTypeInt16, DTypeInt32, DTypeInt64:
		i, ok := asInt64(v)
		if !ok {
			return nil, coercionError(dt, v)
		}
		return appendUintBits(dst, uint64(i), dt.Size()), nil
	case DTypeUint8, DTypeUint16, DTypeUint32, DTypeUint64:
		i, ok := asInt64(v)
		if !ok {
			return nil, coercionError(dt, v)
		}
		return appendUintBits(dst, uint64(i), dt.Size()), nil
	case DTypeFloat32:
		f, ok := asFloat64(v)
		if !ok {
			return nil, coercionError(dt, v)
		}
		return appendUintBits(dst, uint64(math.Float32bits(float32(f))), 4), nil
	case DTypeFloat64:
		f, ok := asFloat64(v)
		if !ok {
			return nil, coercionError(dt, v)
		}
		return appendUintBits(dst, math.Float64bits(f), 8), nil
	default:
		return nil, coercionError(dt, v)
	}
}

// decodeScalar decodes one element from the front of b. The returned value
// uses the natural Go type for the tag (int64 for signed integers, uint64 for
// unsigned, float64/float32 for floats, bool for bool).
func (dt DType) decodeScalar(b []byte) any {
	switch dt {
	case DTypeBool:
		return b[0] != 0
	case DTypeInt8:
		return int64(int8(b[0]))
	case DTypeInt16:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case DTypeInt32:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	case DTypeInt64:
		return int64(binary.LittleEndian.Uint64(b))
	case DTypeUint8:
		return uint64(b[0])
	case DTypeUint16:
		return uint64(binary.LittleEndian.Uint16(b))
	case DTypeUint32:
		return uint64(binary.LittleEndian.Uint32(b))
	case DTypeUint64:
		return binary.LittleEndian.Uint64(b)
	case DTypeFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case DTypeFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return nil
	}
}

func appendUintBits(dst []byte, bits uint64, size int) []byte {
	switch size {
	case 1:
		return append(dst, byte(bits))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, uint16(bits))
	case 4:
		return binary.LittleEndian.AppendUint32(dst, uint32(bits))
	default:
		return binary.LittleEndian.AppendUint64(dst, bits)
	}
}

// dtypeOf infers the element type tag for a native Go scalar.
func dtypeOf(v any) (DType, bool) {
	switch v.(type) {
	case bool:
		return DTypeBool, true
	case int8:
		return DTypeInt8, true
	case int16:
		return DTypeInt16, true
	case int32:
		return DTypeInt32, true
	case int, int64:
		return DTypeInt64, true
	case uint8:
		return DTypeUint8, true
	case uint16:
		return DTypeUint16, true
	case uint32:
		return DTypeUint32, true
	case uint, uint64:
		return DTypeUint64, true
	case float32:
		return DTypeFloat32, true
	case float64:
		return DTypeFloat64, true
	default:
		return DTypeInvalid, false
	}
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// asInt64 converts any native numeric to int64, truncating floats the way a
// plain Go conversion would.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
