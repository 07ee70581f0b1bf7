package aos

import (
	"encoding/binary"
	"testing"
)

func TestEnsureCapacity(t *testing.T) {
	buf := ensureCapacity(nil, 100)
	if cap(buf) < 100 {
		t.Fatalf("cap = %d, wanted >= 100", cap(buf))
	}
	eq(t, len(buf), 0)

	buf = append(buf, 1, 2, 3)
	again := ensureCapacity(buf, 2)
	deepEq(t, again, []byte{1, 2, 3})
}

func TestAppendHelpers(t *testing.T) {
	buf := appendUint32(nil, 0x0102_0304)
	buf = appendUint16(buf, 0x0506)
	buf = appendUint64(buf, 0x0708_090A_0B0C_0D0E)

	eq(t, binary.BigEndian.Uint32(buf[0:]), uint32(0x0102_0304))
	eq(t, binary.BigEndian.Uint16(buf[4:]), uint16(0x0506))
	eq(t, binary.BigEndian.Uint64(buf[6:]), uint64(0x0708_090A_0B0C_0D0E))
	eq(t, len(buf), 14)
}
