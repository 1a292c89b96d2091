package slab

// UnknownCount tells a streaming builder that the producer's final length is
// not known. The chunked engine must not assume a final size when it sees it.
const UnknownCount = -1

// ValueIter produces a lazy sequence of scalar values. Implementations are
// one-shot: the sequence is consumed exactly once and must not be restarted.
// Next returns the next value and true, or a zero value and false once the
// sequence is exhausted.
type ValueIter interface {
	Next() (any, bool)
}

// FuncIter adapts a plain function to a ValueIter.
type FuncIter func() (any, bool)

func (f FuncIter) Next() (any, bool) { return f() }

// SliceIter returns a one-shot iterator over the given values.
func SliceIter(values ...any) ValueIter {
	pos := 0
	return FuncIter(func() (any, bool) {
		if pos >= len(values) {
			return nil, false
		}
		v := values[pos]
		pos++
		return v, true
	})
}
