package system

import (
	"encoding/binary"
	"testing"
)

const testTimeval = 16

func inputEvent(typ, code uint16, value int32) []byte {
	rec := make([]byte, testTimeval+8)
	binary.LittleEndian.PutUint16(rec[testTimeval:], typ)
	binary.LittleEndian.PutUint16(rec[testTimeval+2:], code)
	binary.LittleEndian.PutUint32(rec[testTimeval+4:], uint32(value))
	return rec
}

func TestScanKeyPress(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"press", inputEvent(evKey, KeyF4, 1), true},
		{"release", inputEvent(evKey, KeyF4, 0), false},
		{"repeat", inputEvent(evKey, KeyF4, 2), false},
		{"other key", inputEvent(evKey, 30, 1), false},
		{"not a key event", inputEvent(0x02, KeyF4, 1), false},
		{"second record", append(inputEvent(0, 0, 0), inputEvent(evKey, KeyF4, 1)...), true},
		{"short read", inputEvent(evKey, KeyF4, 1)[:testTimeval+4], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanKeyPress(tt.buf, testTimeval, KeyF4); got != tt.want {
				t.Fatalf("scanKeyPress = %v, want %v", got, tt.want)
			}
		})
	}
}
