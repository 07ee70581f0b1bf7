package aos

import (
	"errors"
	"unsafe"
)

// ErrReadOnly is returned by Store on storages opened without write access.
var ErrReadOnly = errors.New("storage is read-only")

// Storage is a borrowed buffer of records. The package never copies a
// storage implicitly and never extends its lifetime; whoever owns the
// buffer keeps it alive for as long as any collection or view over it
// exists.
type Storage[T any] interface {
	// Len returns the number of records.
	Len() int

	// Shape returns the storage dimensions; Len equals their product.
	// One-dimensional storages return a single-element shape.
	Shape() []int

	// Load returns the record at linear index i.
	Load(i int) (T, error)

	// Store replaces the record at linear index i.
	Store(i int, v T) error
}

// Strided is the capability a storage kind declares when its records occupy
// constant-stride memory slots, enabling raw pointer addressing of fields.
// Classification is a property of the storage kind, queried once per
// collection and assumed stable.
//
// WARNING: this declaration is a trust boundary, not a checked contract.
// Declaring it on a storage whose records do NOT sit at a constant stride
// (say, a view selecting arbitrary indices) makes field accesses read and
// write arbitrary memory. The package cannot detect a wrong declaration.
type Strided interface {
	// StridedBase returns the address of record 0 and the byte stride
	// between consecutive records. ok is false when the storage cannot
	// currently offer raw access (empty, or mapped read-only).
	StridedBase() (base unsafe.Pointer, stride uintptr, ok bool)
}

// Coords is the capability of multi-dimensional storages: it converts
// coordinates to a linear index in the storage's own element order.
type Coords interface {
	LinearIndex(ix []int) (int, bool)
}

// Subranger is implemented by storage kinds that can produce a lightweight
// sub-range handle sharing the same backing memory.
type Subranger[T any] interface {
	Subrange(lo, hi int) Storage[T]
}

// IsStrided reports whether s declares constant-stride record layout and
// can currently offer raw access.
func IsStrided[T any](s Storage[T]) bool {
	_, _, ok := stridedBase(s)
	return ok
}

func stridedBase[T any](s Storage[T]) (unsafe.Pointer, uintptr, bool) {
	if ss, ok := s.(Strided); ok {
		return ss.StridedBase()
	}
	return nil, 0, false
}

// subrange returns a storage over records lo..hi-1 of base, sharing its
// backing memory. Storage kinds that know how to rewrap themselves do so
// via Subranger; everything else gets the generic wrapper below.
func subrange[T any](base Storage[T], lo, hi int) Storage[T] {
	if sr, ok := base.(Subranger[T]); ok {
		return sr.Subrange(lo, hi)
	}
	return &subrangeStorage[T]{base, lo, hi - lo}
}

type subrangeStorage[T any] struct {
	base Storage[T]
	off  int
	n    int
}

func (s *subrangeStorage[T]) Len() int {
	return s.n
}

func (s *subrangeStorage[T]) Shape() []int {
	return []int{s.n}
}

func (s *subrangeStorage[T]) Load(i int) (T, error) {
	if i < 0 || i >= s.n {
		var zero T
		return zero, &IndexError{i, s.n}
	}
	return s.base.Load(s.off + i)
}

func (s *subrangeStorage[T]) Store(i int, v T) error {
	if i < 0 || i >= s.n {
		return &IndexError{i, s.n}
	}
	return s.base.Store(s.off+i, v)
}

func (s *subrangeStorage[T]) StridedBase() (unsafe.Pointer, uintptr, bool) {
	base, stride, ok := stridedBase(s.base)
	if !ok || s.n == 0 {
		return nil, 0, false
	}
	return unsafe.Add(base, uintptr(s.off)*stride), stride, true
}
