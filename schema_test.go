package aos

import (
	"reflect"
	"strings"
	"testing"
	"unsafe"
)

func TestSchemaOffsets(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(Vertex{})))
	var v Vertex
	eq(t, len(sch.Fields()), 3)
	eq(t, sch.FieldByName("ID").Offset, unsafe.Offsetof(v.ID))
	eq(t, sch.FieldByName("Pos").Offset, unsafe.Offsetof(v.Pos))
	eq(t, sch.FieldByName("W").Offset, unsafe.Offsetof(v.W))
	for _, f := range sch.Fields() {
		if !f.Raw() {
			t.Fatalf("field %s: expected raw access", f.Name)
		}
	}
}

type partial struct {
	A int64
	b int64
	C int64
}

func TestSchemaDefaultFieldMap(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(partial{})))
	var p partial
	_ = p.b
	eq(t, len(sch.Fields()), 2)
	eq(t, sch.Fields()[0].Name, "A")
	eq(t, sch.Fields()[1].Name, "C")
	eq(t, sch.FieldByName("C").Offset, unsafe.Offsetof(p.C))
	if sch.FieldByName("b") != nil {
		t.Fatalf("unexported field leaked into schema")
	}
}

func TestSchemaRawClassification(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(labeled{})))
	if sch.FieldByName("Name").Raw() {
		t.Fatalf("string field classified as raw")
	}
	if !sch.FieldByName("Count").Raw() {
		t.Fatalf("int64 field classified as boxed")
	}
}

func TestSchemaRenamed(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(renamedRec{})))
	var r renamedRec
	eq(t, len(sch.Fields()), 2)
	if sch.FieldByName("B") != nil {
		t.Fatalf("renamed field still visible under physical name")
	}
	f := sch.FieldByName("beta")
	if f == nil {
		t.Fatalf("alias not found")
	}
	eq(t, f.Offset, unsafe.Offsetof(r.B))
	eq(t, f.Type, reflect.TypeOf(int64(0)))
}

func TestSchemaNestedFlattening(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(outerRec{})))
	var r outerRec
	f := sch.FieldByName("B")
	if f == nil {
		t.Fatalf("flattened field not found")
	}
	eq(t, f.Offset, unsafe.Offsetof(r.Inner)+unsafe.Offsetof(r.Inner.B))
	if !f.Raw() {
		t.Fatalf("inline nested field should stay raw")
	}
	if sch.FieldByName("Inner") != nil {
		t.Fatalf("flattened sub-record leaked as its own field")
	}
}

func TestSchemaVectorSlots(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(vecRec{})))
	var r vecRec
	names := []string{"x", "y", "z", "w"}
	for k, name := range names {
		f := sch.FieldByName(name)
		if f == nil {
			t.Fatalf("slot %s not found", name)
		}
		eq(t, f.Offset, unsafe.Offsetof(r.V)+uintptr(k)*unsafe.Sizeof(float32(0)))
		eq(t, f.Type, reflect.TypeOf(float32(0)))
		if !f.Raw() {
			t.Fatalf("slot %s should be raw", name)
		}
	}
}

func TestSchemaPointerHop(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(heapRec{})))
	if !sch.FieldByName("N").Raw() {
		t.Fatalf("plain field should be raw")
	}
	f := sch.FieldByName("X")
	if f == nil {
		t.Fatalf("field behind pointer hop not found")
	}
	if f.Raw() {
		t.Fatalf("field behind a pointer hop must not be raw")
	}
}

func TestSchemaDuplicateName(t *testing.T) {
	_, err := SchemaOf(reflect.TypeOf(dupRec{}))
	e := wantErrAs[*SchemaError](t, err)
	eq(t, e.Field, "A")
}

func TestSchemaPointerRecords(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf((*Point)(nil))))
	if !sch.PointerRecords() {
		t.Fatalf("expected pointer records")
	}
	eq(t, sch.Type(), reflect.TypeOf(Point{}))
	for _, f := range sch.Fields() {
		if f.Raw() {
			t.Fatalf("field %s: pointer records must never be raw", f.Name)
		}
	}
}

func TestSchemaNotStruct(t *testing.T) {
	_, err := SchemaOf(reflect.TypeOf(0))
	wantErrAs[*SchemaError](t, err)
}

func TestSchemaMissingField(t *testing.T) {
	type bad struct{ A int64 }
	// bad has no field map, so fabricate a bad entry by resolving directly
	_, err := resolveEntry(reflect.TypeOf(bad{}), F("Nope"))
	e := wantErrAs[*SchemaError](t, err)
	eq(t, e.Field, "Nope")
}

func TestSchemaCaching(t *testing.T) {
	a := must(SchemaOf(reflect.TypeOf(Point{})))
	b := must(SchemaOf(reflect.TypeOf(Point{})))
	if a != b {
		t.Fatalf("schema not cached per type")
	}
}

type pointClone struct {
	X, Y, Z int64
}

func TestSchemaFingerprint(t *testing.T) {
	a := must(SchemaOf(reflect.TypeOf(Point{})))
	b := must(SchemaOf(reflect.TypeOf(pointClone{})))
	c := must(SchemaOf(reflect.TypeOf(Vertex{})))
	eq(t, a.Fingerprint(), b.Fingerprint())
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("distinct logical shapes share a fingerprint")
	}
}

func TestSchemaString(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(Point{})))
	s := sch.String()
	if !strings.Contains(s, "X int64 @0 raw") {
		t.Fatalf("unexpected schema rendering:\n%s", s)
	}
}
