package system

import "encoding/binary"

const (
	evKey = 0x01

	// KeyF4 is the default exit key, from linux/input-event-codes.h.
	KeyF4 = 62
)

// scanKeyPress reports whether buf holds a key-down input_event for key.
// tvSize is the size of struct timeval on the running architecture.
func scanKeyPress(buf []byte, tvSize int, key uint16) bool {
	eventSize := tvSize + 2 + 2 + 4
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && code == key && value == 1 {
			return true
		}
	}
	return false
}
