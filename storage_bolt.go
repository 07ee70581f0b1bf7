package aos

import (
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var (
	boltBucketName = []byte("records")
	boltCountKey   = []byte("n") // 1 byte, can never collide with 8-byte record keys
)

// BoltStorage keeps records as msgpack values in a bbolt bucket keyed by
// big-endian linear index. It deliberately does not declare constant-stride
// layout, so every field access through it takes the whole-record path.
//
// Records that were never stored read back as zero values.
type BoltStorage[T any] struct {
	db    *bbolt.DB
	count int
}

// OpenBoltStorage opens (or creates) a record file at path. A new file is
// sized for n records; for an existing file, the stored count wins and n is
// ignored.
func OpenBoltStorage[T any](path string, n int) (*BoltStorage[T], error) {
	if n < 0 {
		return nil, constructionErrf(nil, nil, "negative record count %d", n)
	}
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &BoltStorage[T]{db: db}
	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucketName)
		if err != nil {
			return err
		}
		if v := b.Get(boltCountKey); v != nil {
			s.count = int(binary.BigEndian.Uint64(v))
			return nil
		}
		s.count = n
		return b.Put(boltCountKey, appendUint64(nil, uint64(n)))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return s, nil
}

func (s *BoltStorage[T]) Close() error {
	return s.db.Close()
}

func (s *BoltStorage[T]) Len() int {
	return s.count
}

func (s *BoltStorage[T]) Shape() []int {
	return []int{s.count}
}

func (s *BoltStorage[T]) Load(i int) (T, error) {
	var rec T
	if i < 0 || i >= s.count {
		return rec, &IndexError{i, s.count}
	}
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltBucketName).Get(appendUint64(nil, uint64(i)))
		if v == nil {
			return nil
		}
		return msgpack.Unmarshal(v, &rec)
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load record %d: %w", i, err)
	}
	return rec, nil
}

func (s *BoltStorage[T]) Store(i int, v T) error {
	if i < 0 || i >= s.count {
		return &IndexError{i, s.count}
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("store record %d: %w", i, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucketName).Put(appendUint64(nil, uint64(i)), data)
	})
	if err != nil {
		return fmt.Errorf("store record %d: %w", i, err)
	}
	return nil
}
