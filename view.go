package aos

import (
	"fmt"
	"reflect"
)

// View projects one logical field of every record in a collection. It
// borrows the collection's storage; its shape equals the storage's shape,
// and each index resolves to exactly one record's field.
type View[T any] struct {
	c    *Collection[T]
	f    *Field // nil for mixed collections
	name string
}

func (v *View[T]) Name() string {
	return v.name
}

func (v *View[T]) Len() int {
	return v.c.storage.Len()
}

func (v *View[T]) Shape() []int {
	return v.c.storage.Shape()
}

func (v *View[T]) check(i int) error {
	if n := v.c.storage.Len(); i < 0 || i >= n {
		return &IndexError{i, n}
	}
	return nil
}

// Get returns the field value of record i.
func (v *View[T]) Get(i int) (any, error) {
	if err := v.check(i); err != nil {
		return nil, err
	}
	if f := v.f; f != nil && f.raw && v.c.strided {
		p := rawPtr(v.c.base, v.c.stride, i, f.Offset)
		return reflect.NewAt(f.Type, p).Elem().Interface(), nil
	}
	return v.slowGet(i)
}

// Set replaces the field value of record i. The write is visible through
// the backing storage and every other view over it.
func (v *View[T]) Set(i int, value any) error {
	if err := v.check(i); err != nil {
		return err
	}
	if f := v.f; f != nil && f.raw && v.c.strided {
		val, err := f.coerce(value)
		if err != nil {
			return err
		}
		p := rawPtr(v.c.base, v.c.stride, i, f.Offset)
		reflect.NewAt(f.Type, p).Elem().Set(val)
		return nil
	}
	return v.slowSet(i, value)
}

// GetAt is Get with multi-dimensional coordinates, converted to a linear
// index in the storage's own element order.
func (v *View[T]) GetAt(ix ...int) (any, error) {
	i, err := v.c.linearIndex(ix)
	if err != nil {
		return nil, err
	}
	return v.Get(i)
}

// SetAt is Set with multi-dimensional coordinates.
func (v *View[T]) SetAt(value any, ix ...int) error {
	i, err := v.c.linearIndex(ix)
	if err != nil {
		return err
	}
	return v.Set(i, value)
}

// slowGet loads the whole record and extracts the field via the schema
// accessor. For mixed collections this is where the element's runtime type
// is resolved, so two elements may legally differ in success for the same
// field name.
func (v *View[T]) slowGet(i int) (any, error) {
	rec, err := v.c.storage.Load(i)
	if err != nil {
		return nil, err
	}
	sch, f := v.c.schema, v.f
	rv := reflect.ValueOf(rec)
	if sch == nil {
		if !rv.IsValid() {
			return nil, schemaErrf(nil, v.name, "nil record at index %d", i)
		}
		sch, err = SchemaOf(rv.Type())
		if err != nil {
			return nil, err
		}
		f = sch.FieldByName(v.name)
		if f == nil {
			return nil, schemaErrf(sch.typ, v.name, "record at index %d has no such logical field", i)
		}
	}
	if sch.ptrRecords {
		if rv.IsNil() {
			return nil, schemaErrf(sch.typ, f.Name, "nil record at index %d", i)
		}
		rv = rv.Elem()
	}
	fv, err := f.get(rv)
	if err != nil {
		return nil, err
	}
	return fv.Interface(), nil
}

// slowSet loads the whole record, updates the field and stores the record
// back. Records held by pointer are mutated in place (and the same pointer
// is stored back), so the write is observed through every other reference
// to the record as well as through the array slot.
func (v *View[T]) slowSet(i int, value any) error {
	rec, err := v.c.storage.Load(i)
	if err != nil {
		return err
	}
	sch, f := v.c.schema, v.f

	var root reflect.Value
	var final func() T
	if sch == nil {
		rv := reflect.ValueOf(rec)
		if !rv.IsValid() {
			return schemaErrf(nil, v.name, "nil record at index %d", i)
		}
		sch, err = SchemaOf(rv.Type())
		if err != nil {
			return err
		}
		f = sch.FieldByName(v.name)
		if f == nil {
			return schemaErrf(sch.typ, v.name, "record at index %d has no such logical field", i)
		}
		if sch.ptrRecords {
			if rv.IsNil() {
				return schemaErrf(sch.typ, f.Name, "nil record at index %d", i)
			}
			root = rv.Elem()
			final = func() T { return rec }
		} else {
			// a value record boxed in an interface is not addressable:
			// clone it, update the clone, store the clone back
			tmp := reflect.New(rv.Type())
			tmp.Elem().Set(rv)
			root = tmp.Elem()
			final = func() T { out, _ := tmp.Elem().Interface().(T); return out }
		}
	} else if sch.ptrRecords {
		rv := reflect.ValueOf(rec)
		if rv.IsNil() {
			return schemaErrf(sch.typ, f.Name, "nil record at index %d", i)
		}
		root = rv.Elem()
		final = func() T { return rec }
	} else {
		root = reflect.ValueOf(&rec).Elem()
		final = func() T { return rec }
	}

	dst, err := f.locate(root)
	if err != nil {
		return err
	}
	val, err := f.coerce(value)
	if err != nil {
		return err
	}
	dst.Set(val)
	return v.c.storage.Store(i, final())
}

// TypedView is a view whose field type is known statically, allowing raw
// typed loads and stores on the fast path and unboxed values on the slow
// path.
type TypedView[T, F any] struct {
	v *View[T]
}

// FieldAs returns a typed view over the logical field name of c, whose
// resolved type must be exactly F. Mixed collections have no statically
// resolvable fields and cannot produce typed views.
func FieldAs[F any, T any](c *Collection[T], name string) (*TypedView[T, F], error) {
	v, err := c.Field(name)
	if err != nil {
		return nil, err
	}
	if v.f == nil {
		return nil, fmt.Errorf("typed views require a concrete record type")
	}
	ftyp := reflect.TypeOf((*F)(nil)).Elem()
	if v.f.Type != ftyp {
		return nil, fmt.Errorf("field %s has type %v, not %v", name, v.f.Type, ftyp)
	}
	return &TypedView[T, F]{v}, nil
}

func (tv *TypedView[T, F]) Name() string {
	return tv.v.name
}

func (tv *TypedView[T, F]) Len() int {
	return tv.v.Len()
}

// Get returns the field value of record i.
func (tv *TypedView[T, F]) Get(i int) (F, error) {
	v := tv.v
	if err := v.check(i); err != nil {
		var zero F
		return zero, err
	}
	if v.f.raw && v.c.strided {
		return *(*F)(rawPtr(v.c.base, v.c.stride, i, v.f.Offset)), nil
	}
	a, err := v.slowGet(i)
	if err != nil {
		var zero F
		return zero, err
	}
	return a.(F), nil
}

// Set replaces the field value of record i.
func (tv *TypedView[T, F]) Set(i int, value F) error {
	v := tv.v
	if err := v.check(i); err != nil {
		return err
	}
	if v.f.raw && v.c.strided {
		*(*F)(rawPtr(v.c.base, v.c.stride, i, v.f.Offset)) = value
		return nil
	}
	return v.slowSet(i, value)
}
