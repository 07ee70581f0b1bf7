package aos

import (
	"errors"
	"reflect"
	"testing"
)

func eq[T comparable](t testing.TB, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, wanted %v", got, want)
	}
}

func deepEq(t testing.TB, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, wanted %v", got, want)
	}
}

func check(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func wantErrAs[E error](t testing.TB, err error) E {
	t.Helper()
	var target E
	if err == nil {
		t.Fatalf("expected %T, got nil error", target)
	}
	if !errors.As(err, &target) {
		t.Fatalf("expected %T, got %T: %v", target, err, err)
	}
	return target
}

// boxedStorage is a slice-backed storage that deliberately does not declare
// constant-stride layout, forcing the whole-record path.
type boxedStorage[T any] struct {
	elems []T
}

func (s *boxedStorage[T]) Len() int {
	return len(s.elems)
}

func (s *boxedStorage[T]) Shape() []int {
	return []int{len(s.elems)}
}

func (s *boxedStorage[T]) Load(i int) (T, error) {
	if i < 0 || i >= len(s.elems) {
		var zero T
		return zero, &IndexError{i, len(s.elems)}
	}
	return s.elems[i], nil
}

func (s *boxedStorage[T]) Store(i int, v T) error {
	if i < 0 || i >= len(s.elems) {
		return &IndexError{i, len(s.elems)}
	}
	s.elems[i] = v
	return nil
}

// Record types shared across tests.

type Point struct {
	X, Y, Z int64
}

type Vertex struct {
	ID  uint32
	Pos Point
	W   float64
}

type labeled struct {
	Name  string
	Count int64
}

type renamedRec struct {
	A int64
	B int64
}

func (renamedRec) FieldMap() []Entry {
	return []Entry{F("A"), Renamed("B", "beta")}
}

type innerRec struct {
	B int64
}

type outerRec struct {
	A     int64
	Inner innerRec
}

func (outerRec) FieldMap() []Entry {
	return []Entry{F("A"), Nested("Inner", F("B"))}
}

type vecRec struct {
	ID int64
	V  [4]float32
}

func (vecRec) FieldMap() []Entry {
	return []Entry{
		F("ID"),
		Nested("V", At(0, "x")),
		Nested("V", At(1, "y")),
		Nested("V", At(2, "z")),
		Nested("V", At(3, "w")),
	}
}

type heapRec struct {
	Info *Point
	N    int64
}

func (heapRec) FieldMap() []Entry {
	return []Entry{F("N"), Nested("Info", F("X"))}
}

type dupRec struct {
	A int64
	B int64
}

func (dupRec) FieldMap() []Entry {
	return []Entry{F("A"), Renamed("B", "A")}
}
