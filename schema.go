package aos

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var schemaCache sync.Map // reflect.Type -> *Schema

// Schema is the compiled field table of a record type: for every logical
// field, its resolved value type, byte offset from the start of a record,
// and the access path used by the whole-record fallback. Schemas are pure
// functions of the record type and are cached per type.
//
// The schema is the sole source of truth for raw memory addressing, so
// overriding a type's field map incorrectly is dangerous: a wrong offset
// on a raw-eligible field corrupts neighboring record memory.
type Schema struct {
	typ          reflect.Type // the struct type of the record
	ptrRecords   bool         // records are pointers: aliasable, updated in place
	fields       []*Field
	fieldsByName map[string]*Field
	fingerprint  uint64
}

// Field is one compiled schema entry.
type Field struct {
	Name   string
	Type   reflect.Type
	Offset uintptr // sum of offsets along the nesting chain

	// raw means Offset may be used for raw memory access: the field is
	// reached without crossing a pointer, its type embeds no pointers, and
	// records are by-value. Offsets of non-raw fields are present for
	// completeness only and must never be used for addressing.
	raw  bool
	path []step
}

// step is one hop of a field access path.
type step struct {
	index int
	array bool // index selects an array slot rather than a struct field
	deref bool // follow a pointer before selecting
}

// SchemaOf compiles (or returns the cached) schema for the given record
// type, which must be a struct type or a pointer to one.
func SchemaOf(typ reflect.Type) (*Schema, error) {
	if v, ok := schemaCache.Load(typ); ok {
		return v.(*Schema), nil
	}
	sch, err := compileSchema(typ)
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(typ, sch)
	return actual.(*Schema), nil
}

func compileSchema(typ reflect.Type) (*Schema, error) {
	sch := &Schema{typ: typ}
	if typ.Kind() == reflect.Pointer {
		sch.ptrRecords = true
		sch.typ = typ.Elem()
	}
	if sch.typ.Kind() != reflect.Struct {
		return nil, schemaErrf(typ, "", "not a record (struct) type")
	}

	sch.fieldsByName = make(map[string]*Field)
	for _, e := range fieldMapOf(sch.typ) {
		f, err := resolveEntry(sch.typ, e)
		if err != nil {
			return nil, err
		}
		if sch.fieldsByName[f.Name] != nil {
			return nil, schemaErrf(sch.typ, f.Name, "duplicate logical field name")
		}
		if sch.ptrRecords {
			// pointer records are aliasable; every access must go through
			// the whole-record path so writes are seen via other references
			f.raw = false
		}
		sch.fields = append(sch.fields, f)
		sch.fieldsByName[f.Name] = f
	}

	d := xxhash.New()
	for _, f := range sch.fields {
		d.WriteString(f.Name)
		d.Write([]byte{0})
		d.WriteString(f.Type.String())
		d.Write([]byte{0})
	}
	sch.fingerprint = d.Sum64()
	return sch, nil
}

func resolveEntry(typ reflect.Type, e Entry) (*Field, error) {
	switch e.kind {
	case entryDirect, entryRenamed:
		sf, i, err := physicalField(typ, e.name)
		if err != nil {
			return nil, err
		}
		name := e.name
		if e.kind == entryRenamed {
			name = e.alias
		}
		return &Field{
			Name:   name,
			Type:   sf.Type,
			Offset: sf.Offset,
			raw:    isPointerFree(sf.Type),
			path:   []step{{index: i}},
		}, nil

	case entryIndexed:
		if typ.Kind() != reflect.Array {
			return nil, schemaErrf(typ, e.alias, "positional entry requires an array type")
		}
		if e.index < 0 || e.index >= typ.Len() {
			return nil, schemaErrf(typ, e.alias, "slot %d out of range (array length %d)", e.index, typ.Len())
		}
		elem := typ.Elem()
		return &Field{
			Name:   e.alias,
			Type:   elem,
			Offset: uintptr(e.index) * elem.Size(),
			raw:    isPointerFree(elem),
			path:   []step{{index: e.index, array: true}},
		}, nil

	case entryNested:
		sf, i, err := physicalField(typ, e.name)
		if err != nil {
			return nil, err
		}
		inner := sf.Type
		var hop bool
		if inner.Kind() == reflect.Pointer {
			// heap-indirected sub-record: offsets past this point do not
			// add up, the whole chain becomes non-raw
			inner = inner.Elem()
			hop = true
		}
		nf, err := resolveEntry(inner, *e.inner)
		if err != nil {
			return nil, err
		}
		path := make([]step, 0, 1+len(nf.path))
		path = append(path, step{index: i})
		path = append(path, nf.path...)
		if hop {
			path[1].deref = true
		}
		return &Field{
			Name:   nf.Name,
			Type:   nf.Type,
			Offset: sf.Offset + nf.Offset,
			raw:    !hop && nf.raw,
			path:   path,
		}, nil

	default:
		return nil, schemaErrf(typ, "", "invalid field map entry")
	}
}

// physicalField finds a direct (non-promoted) struct field by name.
func physicalField(typ reflect.Type, name string) (reflect.StructField, int, error) {
	if typ.Kind() != reflect.Struct {
		return reflect.StructField{}, 0, schemaErrf(typ, name, "not a record (struct) type")
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Name == name {
			return sf, i, nil
		}
	}
	return reflect.StructField{}, 0, schemaErrf(typ, name, "no such field")
}

// Type returns the record struct type the schema was compiled for.
func (sch *Schema) Type() reflect.Type {
	return sch.typ
}

// PointerRecords reports whether record values are pointers, i.e. aliasable
// and updated in place.
func (sch *Schema) PointerRecords() bool {
	return sch.ptrRecords
}

// Fields returns the compiled fields in declaration order. Callers must not
// modify the returned slice.
func (sch *Schema) Fields() []*Field {
	return sch.fields
}

// FieldByName returns the compiled field with the given logical name, or nil.
func (sch *Schema) FieldByName(name string) *Field {
	return sch.fieldsByName[name]
}

// Fingerprint identifies the schema's logical shape (field names and types).
func (sch *Schema) Fingerprint() uint64 {
	return sch.fingerprint
}

// Raw reports whether the field's byte offset may be used for raw memory
// access when the storage is strided.
func (f *Field) Raw() bool {
	return f.raw
}
