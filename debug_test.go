package aos

import (
	"reflect"
	"strings"
	"testing"
)

func TestDumpRecord(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(Point{})))
	eq(t, DumpRecord(sch, Point{1, 2, 3}), "{X: 1, Y: 2, Z: 3}")
	eq(t, DumpRecord(sch, &Point{1, 2, 3}), "{X: 1, Y: 2, Z: 3}")
	eq(t, DumpRecord(sch, nil), "<nil>")
	eq(t, DumpRecord(sch, (*Point)(nil)), "<nil>")
	eq(t, DumpRecord(sch, "not a point"), "<nil>")
}

func TestDumpRecordMissingSubRecord(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf(heapRec{})))
	s := DumpRecord(sch, heapRec{N: 3})
	if !strings.Contains(s, "X: <missing>") {
		t.Fatalf("unexpected dump: %s", s)
	}
	if !strings.Contains(s, "N: 3") {
		t.Fatalf("unexpected dump: %s", s)
	}
}

func TestSchemaStringPointerRecords(t *testing.T) {
	sch := must(SchemaOf(reflect.TypeOf((*Point)(nil))))
	s := sch.String()
	if !strings.Contains(s, "(pointer records)") {
		t.Fatalf("unexpected rendering:\n%s", s)
	}
	if !strings.Contains(s, "X int64 @0 boxed") {
		t.Fatalf("unexpected rendering:\n%s", s)
	}
}
