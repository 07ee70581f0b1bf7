package aos

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Collection binds a storage buffer to the compiled schema of its record
// type and hands out per-field views. It owns nothing: the storage is
// borrowed, and sub-range collections alias the same records.
type Collection[T any] struct {
	storage Storage[T]
	schema  *Schema // nil for mixed (interface-typed) collections

	// strided layout is classified once per collection and assumed stable
	base    unsafe.Pointer
	stride  uintptr
	strided bool
}

// Wrap builds a collection over the given storage. The element type must be
// a struct or a pointer to one; an interface element type produces a mixed
// collection whose schema resolution is deferred to each element's runtime
// type.
func Wrap[T any](storage Storage[T]) (*Collection[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	c := &Collection[T]{storage: storage}
	switch typ.Kind() {
	case reflect.Interface:
		// mixed collection
	case reflect.Pointer:
		if typ.Elem().Kind() != reflect.Struct {
			return nil, constructionErrf(typ, nil, "element type is not a record type")
		}
		fallthrough
	case reflect.Struct:
		sch, err := SchemaOf(typ)
		if err != nil {
			return nil, err
		}
		c.schema = sch
	default:
		return nil, constructionErrf(typ, nil, "element type is not a record type")
	}
	c.base, c.stride, c.strided = stridedBase(storage)
	return c, nil
}

// WrapSlice is sugar for Wrap(NewSliceStorage(elems)).
func WrapSlice[T any](elems []T) (*Collection[T], error) {
	return Wrap[T](NewSliceStorage(elems))
}

func (c *Collection[T]) Len() int {
	return c.storage.Len()
}

func (c *Collection[T]) Shape() []int {
	return c.storage.Shape()
}

// Storage returns the borrowed backing storage.
func (c *Collection[T]) Storage() Storage[T] {
	return c.storage
}

// Schema returns the compiled schema, or nil for a mixed collection.
func (c *Collection[T]) Schema() *Schema {
	return c.schema
}

// Mixed reports whether schema resolution is deferred to element runtime
// types.
func (c *Collection[T]) Mixed() bool {
	return c.schema == nil
}

// At returns the record at linear index i.
func (c *Collection[T]) At(i int) (T, error) {
	return c.storage.Load(i)
}

// SetAt replaces the record at linear index i.
func (c *Collection[T]) SetAt(i int, v T) error {
	return c.storage.Store(i, v)
}

// FieldNames returns the logical field names in declaration order, or nil
// for a mixed collection.
func (c *Collection[T]) FieldNames() []string {
	if c.schema == nil {
		return nil
	}
	names := make([]string, len(c.schema.fields))
	for i, f := range c.schema.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns a view of one logical field over every record of the
// collection. For mixed collections the name is checked per element at
// access time rather than here.
func (c *Collection[T]) Field(name string) (*View[T], error) {
	if c.schema != nil {
		f := c.schema.FieldByName(name)
		if f == nil {
			return nil, &UnknownFieldError{c.schema.typ, name}
		}
		return &View[T]{c: c, f: f, name: name}, nil
	}
	return &View[T]{c: c, name: name}, nil
}

// MustField is Field for fields known to exist.
func (c *Collection[T]) MustField(name string) *View[T] {
	v, err := c.Field(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Slice returns a collection over records lo..hi-1 sharing the same backing
// storage. Writes through either collection are visible through the other
// and through the original storage.
func (c *Collection[T]) Slice(lo, hi int) (*Collection[T], error) {
	n := c.storage.Len()
	if lo < 0 || lo > n {
		return nil, &IndexError{lo, n}
	}
	if hi < lo || hi > n {
		return nil, &IndexError{hi, n}
	}
	sub := subrange(c.storage, lo, hi)
	out := &Collection[T]{storage: sub, schema: c.schema}
	out.base, out.stride, out.strided = stridedBase(sub)
	return out, nil
}

// linearIndex converts coordinates to a linear index in the storage's own
// element order.
func (c *Collection[T]) linearIndex(ix []int) (int, error) {
	if len(ix) == 1 {
		return ix[0], nil
	}
	if co, ok := c.storage.(Coords); ok {
		if lin, ok := co.LinearIndex(ix); ok {
			return lin, nil
		}
	}
	return 0, fmt.Errorf("invalid coordinates %v for shape %v", ix, c.storage.Shape())
}
