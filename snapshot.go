package aos

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot format: fixed header, then a msgpack stream of records.
//
//	header -> magic:32 version:16 reserved:16 count:64 fingerprint:64
//
// All header integers are big-endian. The fingerprint is the schema
// fingerprint of the record type; a snapshot is refused when read back into
// a record type whose logical fields differ.
//
// This is a convenience dump of one collection, not a general serialization
// format: it carries no type information beyond the fingerprint.

const (
	snapshotMagic      = 0x414F_5331 // "AOS1"
	snapshotVersion    = 1
	snapshotHeaderSize = 24
	maxSnapshotCount   = 1 << 40 // sanity bound against corrupt headers
)

// ErrSnapshotSchema is returned by ReadSnapshot when the stored schema
// fingerprint does not match the destination record type.
var ErrSnapshotSchema = errors.New("snapshot schema fingerprint mismatch")

// WriteSnapshot dumps every record of the collection to w. Mixed
// collections have no single schema and cannot be snapshotted.
func (c *Collection[T]) WriteSnapshot(w io.Writer) error {
	if c.schema == nil {
		return constructionErrf(nil, nil, "cannot snapshot a mixed collection")
	}
	var hdr []byte
	hdr = appendUint32(hdr, snapshotMagic)
	hdr = appendUint16(hdr, snapshotVersion)
	hdr = appendUint16(hdr, 0)
	hdr = appendUint64(hdr, uint64(c.storage.Len()))
	hdr = appendUint64(hdr, c.schema.fingerprint)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr); err != nil {
		return err
	}
	enc := msgpack.NewEncoder(bw)
	for i, n := 0, c.storage.Len(); i < n; i++ {
		rec, err := c.storage.Load(i)
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("snapshot record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadSnapshot loads a snapshot of records of type T into a fresh
// slice-backed collection.
func ReadSnapshot[T any](r io.Reader) (*Collection[T], error) {
	sch, err := SchemaOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	var hdr [snapshotHeaderSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	if magic := binary.BigEndian.Uint32(hdr[0:]); magic != snapshotMagic {
		return nil, fmt.Errorf("not a snapshot (magic 0x%08x)", magic)
	}
	if ver := binary.BigEndian.Uint16(hdr[4:]); ver != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", ver)
	}
	count := binary.BigEndian.Uint64(hdr[8:])
	if count > maxSnapshotCount {
		return nil, fmt.Errorf("implausible snapshot record count %d", count)
	}
	if fp := binary.BigEndian.Uint64(hdr[16:]); fp != sch.fingerprint {
		return nil, fmt.Errorf("%w: stored %016x, %v has %016x", ErrSnapshotSchema, fp, sch.typ, sch.fingerprint)
	}

	elems := make([]T, count)
	dec := msgpack.NewDecoder(br)
	for i := range elems {
		if err := dec.Decode(&elems[i]); err != nil {
			return nil, fmt.Errorf("snapshot record %d: %w", i, err)
		}
	}
	return WrapSlice(elems)
}
