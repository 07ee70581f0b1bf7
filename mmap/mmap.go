// Package mmap memory-maps files holding arrays of fixed-layout records,
// so that record fields can be read and written in place without copying
// the file contents through the ordinary read/write path.
package mmap

import (
	"os"
)

type Options uint

const (
	// Writable opens the mapping for writing (otherwise, it's read-only).
	Writable Options = 1 << 0

	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Incompatible with RandomAccess. Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << 1

	// RandomAccess is a hint that read ahead is less useful than normally.
	// Incompatible with SequentialAccess. Maps to MADV_RANDOM on Unix.
	RandomAccess Options = 1 << 2

	// Prefault is a hint requesting the entire file to be loaded in memory
	// for fastest access. Maps to MAP_POPULATE on Linux.
	Prefault Options = 1 << 3
)

func (o Options) Has(v Options) bool {
	return o&v != 0
}

// Map memory-maps the first size bytes of f.
func Map(f *os.File, size int, opt Options) ([]byte, error) {
	return mmap(f, size, opt)
}

// Unmap unmaps the given slice from memory. The slice must have been
// returned by Map. Any pointers into the mapping are invalid afterwards.
func Unmap(b []byte) error {
	return munmap(b)
}

// Sync flushes modified pages of the mapping back to the underlying file.
// The slice must have been returned by Map with the Writable option.
func Sync(b []byte) error {
	return msync(b)
}
