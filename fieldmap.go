package aos

import "reflect"

// FieldMapper is implemented by record types that want to customize the
// logical fields their collections expose: rename fields, expose positional
// array slots under names, or flatten fields out of nested sub-records.
//
// Types that don't implement FieldMapper expose every exported physical
// field under its own name, in declaration order.
type FieldMapper interface {
	FieldMap() []Entry
}

type entryKind int

const (
	entryDirect entryKind = iota
	entryRenamed
	entryIndexed
	entryNested
)

// Entry describes one logical field exposed by a record type. Use F,
// Renamed, At and Nested to build entries.
type Entry struct {
	kind  entryKind
	name  string
	index int
	alias string
	inner *Entry
}

// F exposes the physical field name under its own name.
func F(name string) Entry {
	return Entry{kind: entryDirect, name: name}
}

// Renamed exposes the physical field actual under the logical name alias.
func Renamed(actual, alias string) Entry {
	return Entry{kind: entryRenamed, name: actual, alias: alias}
}

// At exposes slot index of an array under the logical name alias. Valid at
// the top level only for array records; typically used inside Nested to
// name the slots of a fixed-size array field (say, x/y/z/w of a vector).
func At(index int, alias string) Entry {
	return Entry{kind: entryIndexed, index: index, alias: alias}
}

// Nested resolves inner within the sub-record stored in field outer. The
// resulting logical name is the innermost name or alias. Entries nest to
// any depth, and renames apply at any level.
func Nested(outer string, inner Entry) Entry {
	return Entry{kind: entryNested, name: outer, inner: &inner}
}

// fieldMapOf returns the declared field map of a record type, or the
// default one-entry-per-exported-field map. No validation happens here;
// malformed maps surface when the schema compiler resolves them.
func fieldMapOf(typ reflect.Type) []Entry {
	if m, ok := reflect.New(typ).Interface().(FieldMapper); ok {
		return m.FieldMap()
	}
	entries := make([]Entry, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		entries = append(entries, F(f.Name))
	}
	return entries
}
