/*
Package aos provides zero-copy, per-field access into array-of-structs
buffers: given records stored contiguously (or at a constant byte stride) in
a borrowed buffer, it exposes each logical field as an independent
array-like view that reads and writes the backing storage without copying
or reallocating it.

We implement:

1. Storage kinds, borrowed buffers of records: a plain slice, a
memory-mapped file of fixed-layout records, and a bbolt-backed element
store for records that must not live in process memory.

2. Field maps, the declarative description of which logical fields a record
type exposes: direct fields, renamed fields, positional array slots, and
fields nested inside sub-records, with renames allowed at any nesting level.

3. Compiled schemas, derived once per record type and cached: for every
logical field, its resolved value type, byte offset from the start of a
record, and an accessor that can extract or replace the field in a whole
record value.

4. Dual-path field access: a raw pointer load/store at base + i*stride +
offset when that is provably safe, and a whole-record load/modify/store
fallback everywhere else.

# Technical Details

**Fast path.**
A field access takes the raw-memory path only when the storage declares
constant-stride layout, records are by-value fixed-layout types (not
pointers), the field is reached without crossing a pointer, and the field's
own type embeds no pointers. Under those preconditions every record
occupies a constant-size slot and the field sits at a constant offset
within it, so a single typed load or store at the computed address is
exactly equivalent to the whole-record path.

**Slow path.**
Everything else loads the whole record, applies the schema accessor, and
(for writes) stores the record back. Records held by pointer are mutated in
place instead, because such records may be shared by reference elsewhere
and the write must be observable through every reference.

**Trust boundary.**
A storage kind declares constant-stride layout by implementing the Strided
capability. The declaration is not verified: implementing it on a storage
whose records do not actually sit at a constant stride makes field accesses
read and write arbitrary memory. This is the sharpest contract in the
package.

**Lifetime and concurrency.**
Collections and views borrow their storage; whoever owns the buffer must
keep it alive for as long as any view over it exists. The package performs
no locking: concurrent reads are safe, concurrent writes to the same
storage must be serialized by the caller.
*/
package aos
