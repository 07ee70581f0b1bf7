package aos

import (
	"fmt"
	"reflect"
	"strings"
)

// String renders the schema as one line per logical field: name, resolved
// type, byte offset, and whether the offset is usable for raw access.
func (sch *Schema) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%v", sch.typ)
	if sch.ptrRecords {
		buf.WriteString(" (pointer records)")
	}
	buf.WriteByte('\n')
	for _, f := range sch.fields {
		access := "raw"
		if !f.raw {
			access = "boxed"
		}
		fmt.Fprintf(&buf, "  %s %v @%d %s\n", f.Name, f.Type, f.Offset, access)
	}
	return buf.String()
}

// DumpRecord renders one record through the schema's logical fields.
func DumpRecord(sch *Schema, rec any) string {
	rv := valueOfRecord(sch, rec)
	if !rv.IsValid() {
		return "<nil>"
	}
	var buf strings.Builder
	buf.WriteByte('{')
	for i, f := range sch.fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		v, err := f.get(rv)
		if err != nil {
			buf.WriteString("<missing>")
		} else {
			fmt.Fprintf(&buf, "%v", v.Interface())
		}
	}
	buf.WriteByte('}')
	return buf.String()
}

func valueOfRecord(sch *Schema, rec any) reflect.Value {
	rv := reflect.ValueOf(rec)
	if !rv.IsValid() {
		return rv
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	if rv.Type() != sch.typ {
		return reflect.Value{}
	}
	return rv
}
