package aos

import (
	"unsafe"
)

// SliceStorage adapts a borrowed []T as a one-dimensional strided storage.
// The slice is aliased, not copied: writes through the storage are visible
// in the original slice and vice versa.
type SliceStorage[T any] struct {
	elems []T
}

func NewSliceStorage[T any](elems []T) *SliceStorage[T] {
	return &SliceStorage[T]{elems}
}

// Elems returns the backing slice.
func (s *SliceStorage[T]) Elems() []T {
	return s.elems
}

func (s *SliceStorage[T]) Len() int {
	return len(s.elems)
}

func (s *SliceStorage[T]) Shape() []int {
	return []int{len(s.elems)}
}

func (s *SliceStorage[T]) Load(i int) (T, error) {
	if i < 0 || i >= len(s.elems) {
		var zero T
		return zero, &IndexError{i, len(s.elems)}
	}
	return s.elems[i], nil
}

func (s *SliceStorage[T]) Store(i int, v T) error {
	if i < 0 || i >= len(s.elems) {
		return &IndexError{i, len(s.elems)}
	}
	s.elems[i] = v
	return nil
}

func (s *SliceStorage[T]) StridedBase() (unsafe.Pointer, uintptr, bool) {
	if len(s.elems) == 0 {
		return nil, 0, false
	}
	var zero T
	return unsafe.Pointer(&s.elems[0]), unsafe.Sizeof(zero), true
}

func (s *SliceStorage[T]) Subrange(lo, hi int) Storage[T] {
	return &SliceStorage[T]{s.elems[lo:hi:hi]}
}

// Reshape wraps s as a multi-dimensional storage with the given dims, laid
// out in s's own linear order with the last dimension varying fastest. The
// product of dims must equal s.Len().
func Reshape[T any](s Storage[T], dims ...int) (Storage[T], error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return nil, constructionErrf(nil, nil, "negative dimension %d", d)
		}
		n *= d
	}
	if n != s.Len() {
		return nil, constructionErrf(nil, nil, "cannot reshape %d records to %v", s.Len(), dims)
	}
	shape := make([]int, len(dims))
	copy(shape, dims)
	return &reshapedStorage[T]{s, shape}, nil
}

type reshapedStorage[T any] struct {
	base Storage[T]
	dims []int
}

func (s *reshapedStorage[T]) Len() int {
	return s.base.Len()
}

func (s *reshapedStorage[T]) Shape() []int {
	return s.dims
}

func (s *reshapedStorage[T]) Load(i int) (T, error) {
	return s.base.Load(i)
}

func (s *reshapedStorage[T]) Store(i int, v T) error {
	return s.base.Store(i, v)
}

func (s *reshapedStorage[T]) StridedBase() (unsafe.Pointer, uintptr, bool) {
	return stridedBase(s.base)
}

func (s *reshapedStorage[T]) LinearIndex(ix []int) (int, bool) {
	if len(ix) != len(s.dims) {
		return 0, false
	}
	var lin int
	for k, d := range s.dims {
		if ix[k] < 0 || ix[k] >= d {
			return 0, false
		}
		lin = lin*d + ix[k]
	}
	return lin, true
}
