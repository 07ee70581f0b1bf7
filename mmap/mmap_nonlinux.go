//go:build unix && !linux

package mmap

// MAP_POPULATE is Linux-only; Prefault is a no-op elsewhere.
const mapPopulate = 0
