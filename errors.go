package aos

import (
	"fmt"
	"reflect"
)

// ConstructionError means a collection or storage could not be built: the
// element type is not a record type, or the storage fails a required layout
// precondition. It is returned at wrap/open time, never deferred.
type ConstructionError struct {
	Type reflect.Type // offending element type, if known
	Msg  string
	Err  error
}

func constructionErrf(typ reflect.Type, err error, format string, args ...any) error {
	return &ConstructionError{typ, fmt.Sprintf(format, args...), err}
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func (e *ConstructionError) Error() string {
	var suffix string
	if e.Err != nil {
		suffix = ": " + e.Err.Error()
	}
	if e.Type != nil {
		return fmt.Sprintf("%v: %s%s", e.Type, e.Msg, suffix)
	}
	return e.Msg + suffix
}

// SchemaError means a field map entry could not be resolved against a
// record type. For mixed collections this is raised at the first access of
// the offending element, not at wrap time.
type SchemaError struct {
	Type  reflect.Type
	Field string
	Msg   string
}

func schemaErrf(typ reflect.Type, field string, format string, args ...any) error {
	return &SchemaError{typ, field, fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v.%s: %s", e.Type, e.Field, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Type, e.Msg)
}

// UnknownFieldError means an access named a logical field absent from the
// schema.
type UnknownFieldError struct {
	Type reflect.Type // nil for mixed collections
	Name string
}

func (e *UnknownFieldError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("%v has no logical field %q", e.Type, e.Name)
	}
	return fmt.Sprintf("no logical field %q", e.Name)
}

// IndexError means an index fell outside the storage's shape. It is
// returned before any memory access happens.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (len %d)", e.Index, e.Len)
}
