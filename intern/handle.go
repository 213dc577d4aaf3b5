package intern

import "encoding/binary"

// PutHandle stores h little-endian in buf[:HandleSize].
func PutHandle(buf []byte, h Handle) {
	binary.LittleEndian.PutUint32(buf[:HandleSize], uint32(h))
}

// HandleAt loads a handle stored by PutHandle.
func HandleAt(buf []byte) Handle {
	return Handle(binary.LittleEndian.Uint32(buf[:HandleSize]))
}
