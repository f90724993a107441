package bmpio

import (
	"encoding/binary"
	"fmt"
)

// bytesWalker reads fixed-width little-endian primitives from a byte slice.
// All multi-byte reads assemble bytes explicitly through encoding/binary,
// so results do not depend on the host byte order. Reads past the end of
// the buffer return an error — library code must never panic on untrusted
// input.
type bytesWalker struct {
	data []byte
	off  int
}

func newBytesWalker(b []byte) *bytesWalker { return &bytesWalker{data: b} }

// hasData reports whether at least one byte remains.
func (w *bytesWalker) hasData() bool { return w.off < len(w.data) }

func (w *bytesWalker) need(n int) error {
	if w.off+n > len(w.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, w.off, len(w.data)-w.off)
	}
	return nil
}

func (w *bytesWalker) nextU8() (uint8, error) {
	if err := w.need(1); err != nil {
		return 0, err
	}
	v := w.data[w.off]
	w.off++
	return v, nil
}

func (w *bytesWalker) nextU16() (uint16, error) {
	if err := w.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(w.data[w.off:])
	w.off += 2
	return v, nil
}

func (w *bytesWalker) nextU32() (uint32, error) {
	if err := w.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(w.data[w.off:])
	w.off += 4
	return v, nil
}

func (w *bytesWalker) nextI32() (int32, error) {
	v, err := w.nextU32()
	return int32(v), err
}

// alignU32 advances the offset to the next multiple of 4 relative to the
// start of the buffer. It consumes no data, so trailing file padding that
// is shorter than the alignment gap is not an error.
func (w *bytesWalker) alignU32() {
	w.off += pad4(w.off)
}

// pad4 returns the number of bytes needed to round n up to a multiple of 4.
func pad4(n int) int { return (4 - n%4) % 4 }

func appendU16(data []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(data, v)
}

func appendU32(data []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(data, v)
}

func appendI32(data []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(data, uint32(v))
}
