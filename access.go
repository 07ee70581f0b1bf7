package aos

import (
	"reflect"
	"unsafe"
)

// rawPtr computes the in-memory address of a field of record i. This is the
// only place the package does pointer arithmetic. Callers must have
// bounds-checked i and established fast-path eligibility: strided storage,
// by-value fixed-layout records, pointer-free field type, offset computed
// through fixed-layout hops only.
func rawPtr(base unsafe.Pointer, stride uintptr, i int, off uintptr) unsafe.Pointer {
	return unsafe.Add(base, uintptr(i)*stride+off)
}

// isPointerFree reports whether values of typ occupy a fixed-size memory
// region with no embedded pointers. Only such fields may be read or written
// as raw bytes: anything carrying a pointer needs the GC to observe the
// write, and anything with indirection has no fixed in-place size.
func isPointerFree(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPointerFree(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if !isPointerFree(typ.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// strings, slices, maps, chans, funcs, interfaces, pointers
		return false
	}
}

// get reads the field out of a whole record value (the struct, not a
// pointer to it).
func (f *Field) get(rec reflect.Value) (reflect.Value, error) {
	v := rec
	for _, st := range f.path {
		if st.deref {
			if v.IsNil() {
				return reflect.Value{}, schemaErrf(rec.Type(), f.Name, "nil sub-record along access path")
			}
			v = v.Elem()
		}
		if st.array {
			v = v.Index(st.index)
		} else {
			v = v.Field(st.index)
		}
	}
	return v, nil
}

// locate walks to the field within an addressable record value, allocating
// nil sub-records along the way so the field can be set. Sub-records held
// by pointer are deliberately not copied: they are aliasable, and mutating
// through the pointer is how the write becomes visible to other holders.
func (f *Field) locate(rec reflect.Value) (reflect.Value, error) {
	v := rec
	for _, st := range f.path {
		if st.deref {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if st.array {
			v = v.Index(st.index)
		} else {
			v = v.Field(st.index)
		}
	}
	return v, nil
}

// coerce validates that value can be assigned to the field and returns it
// as a reflect.Value.
func (f *Field) coerce(value any) (reflect.Value, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return reflect.Value{}, schemaErrf(f.Type, f.Name, "cannot assign untyped nil")
	}
	if v.Type() != f.Type {
		if !v.Type().AssignableTo(f.Type) {
			return reflect.Value{}, schemaErrf(v.Type(), f.Name, "cannot assign to field of type %v", f.Type)
		}
	}
	return v, nil
}
