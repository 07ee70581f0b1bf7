package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOptionsHas(t *testing.T) {
	var o Options = Writable | Prefault
	if !o.Has(Writable) || o.Has(SequentialAccess) {
		t.Fatalf("Options.Has returned unexpected results for %v", o)
	}
}

func TestMapUnmap(t *testing.T) {
	f := must(os.Create(filepath.Join(t.TempDir(), "records.dat")))
	defer f.Close()

	const size = 4096
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	b, err := Map(f, size, Writable)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(b) != size {
		t.Fatalf("len(mapping) = %d, wanted %d", len(b), size)
	}
	b[0] = 0x42
	if err := Sync(b); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := Unmap(b); err != nil {
		t.Fatalf("Unmap: %v", err)
	}

	data := must(os.ReadFile(f.Name()))
	if data[0] != 0x42 {
		t.Fatalf("write through mapping not visible in file: got 0x%02x", data[0])
	}
}

func TestMapReadOnly(t *testing.T) {
	name := filepath.Join(t.TempDir(), "records.dat")
	if err := os.WriteFile(name, []byte{1, 2, 3, 4}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f := must(os.Open(name))
	defer f.Close()

	b, err := Map(f, 4, RandomAccess)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer Unmap(b)
	if b[0] != 1 || b[3] != 4 {
		t.Fatalf("mapping content = %v, wanted 1..4", b)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
