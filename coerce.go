package slab

import (
	"fmt"
	"reflect"
)

// scalarAppender is the write end the engines expose to the eager
// materialization walk.
type scalarAppender interface {
	appendScalar(v any) error
}

// valueShape determines the extent tuple of a native Go value by walking its
// nesting. Scalars have a nil shape (0-dimensional). Raggedness is not
// detected here; the flatten walk validates every extent.
func valueShape(v any) []int {
	var shape []int
	rv := unwrap(reflect.ValueOf(v))
	for rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			break
		}
		rv = unwrap(rv.Index(0))
	}
	return shape
}

// inferValueDType picks the element type tag from the first leaf scalar of v.
// An empty input has no leaf to inspect and defaults to float64.
func inferValueDType(v any) (DType, error) {
	rv := unwrap(reflect.ValueOf(v))
	for rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Len() == 0 {
			return DTypeFloat64, nil
		}
		rv = unwrap(rv.Index(0))
	}
	if !rv.IsValid() {
		return DTypeInvalid, &CoercionError{Want: "array element", Got: "nil"}
	}
	dt, ok := dtypeOf(rv.Interface())
	if !ok {
		return DTypeInvalid, &CoercionError{Want: "numeric or bool element", Got: rv.Type().String()}
	}
	return dt, nil
}

// flattenInto walks v in row-major order against shape, appending every leaf
// scalar to dst. Ragged nesting fails with a CoercionError.
func flattenInto(dst scalarAppender, v any, shape []int) error {
	return flattenValue(dst, reflect.ValueOf(v), shape, 0)
}

func flattenValue(dst scalarAppender, rv reflect.Value, shape []int, depth int) error {
	rv = unwrap(rv)
	if depth == len(shape) {
		if !rv.IsValid() {
			return &CoercionError{Want: "array element", Got: "nil"}
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return raggedError(shape)
		}
		return dst.appendScalar(rv.Interface())
	}
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != shape[depth] {
		return raggedError(shape)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := flattenValue(dst, rv.Index(i), shape, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func raggedError(shape []int) error {
	return &CoercionError{
		Want: fmt.Sprintf("rectangular value of shape %v", shape),
		Got:  "ragged nested sequence",
	}
}

func unwrap(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}
