package aos

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"github.com/andreyvit/aos/mmap"
)

// MappedStorage is a strided storage over a memory-mapped file of
// fixed-layout records. The record type must be a pointer-free struct;
// anything carrying indirection has no meaningful on-disk representation.
//
// Writable mappings declare constant-stride layout, so fast-path field
// writes mutate the file pages directly; call Sync to flush them. Read-only
// mappings never declare it, which keeps raw writes off write-protected
// pages.
type MappedStorage[T any] struct {
	f        *os.File
	mapping  []byte
	elems    []T
	writable bool
}

// CreateMapped creates (or truncates) a file sized for n records and maps
// it writable.
func CreateMapped[T any](path string, n int) (*MappedStorage[T], error) {
	recSize, err := mappedRecordSize[T]()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, constructionErrf(nil, nil, "mapped storage needs a positive record count, got %d", n)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	size := n * recSize
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}
	return mapRecords[T](f, size, recSize, true)
}

// OpenMapped maps an existing record file; the record count derives from
// the file size, which must be a whole number of records.
func OpenMapped[T any](path string, writable bool) (*MappedStorage[T], error) {
	recSize, err := mappedRecordSize[T]()
	if err != nil {
		return nil, err
	}
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := int(st.Size())
	if size%recSize != 0 {
		f.Close()
		typ := reflect.TypeOf((*T)(nil)).Elem()
		return nil, constructionErrf(typ, nil, "file size %d is not a whole number of %d-byte records", size, recSize)
	}
	return mapRecords[T](f, size, recSize, writable)
}

func mappedRecordSize[T any]() (int, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return 0, constructionErrf(typ, nil, "mapped storage requires a struct record type")
	}
	if !isPointerFree(typ) {
		return 0, constructionErrf(typ, nil, "mapped storage requires a pointer-free record type")
	}
	if typ.Size() == 0 {
		return 0, constructionErrf(typ, nil, "mapped storage requires a non-zero-size record type")
	}
	return int(typ.Size()), nil
}

func mapRecords[T any](f *os.File, size, recSize int, writable bool) (*MappedStorage[T], error) {
	s := &MappedStorage[T]{f: f, writable: writable}
	if size == 0 {
		return s, nil
	}
	var opt mmap.Options = mmap.RandomAccess
	if writable {
		opt |= mmap.Writable
	}
	b, err := mmap.Map(f, size, opt)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	s.mapping = b
	s.elems = unsafe.Slice((*T)(unsafe.Pointer(&b[0])), size/recSize)
	return s, nil
}

// Sync flushes fast-path writes back to the file.
func (s *MappedStorage[T]) Sync() error {
	if s.mapping == nil || !s.writable {
		return nil
	}
	return mmap.Sync(s.mapping)
}

// Close unmaps the file. Every collection and view over this storage is
// invalid afterwards.
func (s *MappedStorage[T]) Close() error {
	if s.mapping != nil {
		if err := mmap.Unmap(s.mapping); err != nil {
			return err
		}
		s.mapping, s.elems = nil, nil
	}
	return s.f.Close()
}

func (s *MappedStorage[T]) Len() int {
	return len(s.elems)
}

func (s *MappedStorage[T]) Shape() []int {
	return []int{len(s.elems)}
}

func (s *MappedStorage[T]) Load(i int) (T, error) {
	if i < 0 || i >= len(s.elems) {
		var zero T
		return zero, &IndexError{i, len(s.elems)}
	}
	return s.elems[i], nil
}

func (s *MappedStorage[T]) Store(i int, v T) error {
	if i < 0 || i >= len(s.elems) {
		return &IndexError{i, len(s.elems)}
	}
	if !s.writable {
		return ErrReadOnly
	}
	s.elems[i] = v
	return nil
}

func (s *MappedStorage[T]) StridedBase() (unsafe.Pointer, uintptr, bool) {
	if len(s.elems) == 0 || !s.writable {
		return nil, 0, false
	}
	var zero T
	return unsafe.Pointer(&s.elems[0]), unsafe.Sizeof(zero), true
}
