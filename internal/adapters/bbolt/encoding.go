// Binary encoding for match offset blobs.
//
// Offsets are ascending, so each is stored as the uvarint delta from the
// previous one (the first from zero), after a uvarint count:
//
//	count:  uvarint
//	deltas: [count]uvarint
//
// Dense overlapping matches (pattern "AA" over a run of A's) cost one byte
// per offset.
package bbolt

import (
	"encoding/binary"
	"fmt"
)

// encodeOffsets encodes ascending, non-negative offsets. A single buffer
// sized for the worst case is allocated up front.
func encodeOffsets(offsets []int) ([]byte, error) {
	buf := make([]byte, binary.MaxVarintLen64*(len(offsets)+1))
	n := binary.PutUvarint(buf, uint64(len(offsets)))

	prev := 0
	for i, off := range offsets {
		if off < prev {
			return nil, fmt.Errorf("offset %d at position %d is below previous %d", off, i, prev)
		}
		n += binary.PutUvarint(buf[n:], uint64(off-prev))
		prev = off
	}
	return buf[:n], nil
}

// decodeOffsets reverses encodeOffsets. Every read is bounds-checked to avoid
// panics on corrupt data.
func decodeOffsets(data []byte) ([]int, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("offset blob too short: %d bytes", len(data))
	}
	pos := n
	if count > uint64(len(data)-pos) {
		return nil, fmt.Errorf("offset count %d exceeds blob size %d", count, len(data))
	}
	if count == 0 {
		return nil, nil
	}

	offsets := make([]int, count)
	prev := uint64(0)
	for i := uint64(0); i < count; i++ {
		delta, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("truncated at offset %d (byte %d)", i, pos)
		}
		pos += n
		prev += delta
		offsets[i] = int(prev)
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after %d offsets", len(data)-pos, count)
	}
	return offsets, nil
}
