package aos

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMappedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.aos")
	s := must(CreateMapped[Point](path, 3))

	eq(t, s.Len(), 3)
	if !IsStrided[Point](s) {
		t.Fatalf("writable mapping should be strided")
	}

	c := must(Wrap[Point](s))
	x := must(c.Field("X"))
	for i := 0; i < 3; i++ {
		check(t, x.Set(i, int64(i+1)))
	}
	check(t, c.SetAt(1, Point{4, 5, 6}))
	check(t, s.Sync())
	check(t, s.Close())

	// reopen read-only: same bytes, whole-record path only
	s = must(OpenMapped[Point](path, false))
	defer s.Close()
	eq(t, s.Len(), 3)
	if IsStrided[Point](s) {
		t.Fatalf("read-only mapping must not offer raw access")
	}
	eq(t, must(s.Load(0)), Point{X: 1})
	eq(t, must(s.Load(1)), Point{4, 5, 6})
	eq(t, must(s.Load(2)), Point{X: 3})

	if err := s.Store(0, Point{}); err != ErrReadOnly {
		t.Fatalf("got %v, wanted ErrReadOnly", err)
	}
	v := must(must(Wrap[Point](s)).Field("X"))
	eq(t, must(v.Get(1)).(int64), int64(4))
	if err := v.Set(1, int64(0)); err != ErrReadOnly {
		t.Fatalf("got %v, wanted ErrReadOnly", err)
	}
}

func TestMappedReopenWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.aos")
	s := must(CreateMapped[Point](path, 2))
	check(t, must(must(Wrap[Point](s)).Field("Y")).Set(0, int64(9)))
	check(t, s.Close())

	s = must(OpenMapped[Point](path, true))
	defer s.Close()
	if !IsStrided[Point](s) {
		t.Fatalf("writable mapping should be strided")
	}
	eq(t, must(s.Load(0)), Point{Y: 9})
}

func TestMappedRejectsPointerBearingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.aos")
	_, err := CreateMapped[labeled](path, 1)
	wantErrAs[*ConstructionError](t, err)

	_, err = CreateMapped[Point](path, 0)
	wantErrAs[*ConstructionError](t, err)
}

func TestMappedRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.aos")
	check(t, os.WriteFile(path, make([]byte, 7), 0o644))
	_, err := OpenMapped[Point](path, false)
	wantErrAs[*ConstructionError](t, err)
}
