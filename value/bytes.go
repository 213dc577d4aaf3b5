package value

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Typed little-endian accessors over a bounds-checked window.
type window []byte

func (w window) boolAt() bool     { return w[0] != 0 }
func (w window) uint16At() uint16 { return binary.LittleEndian.Uint16(w[:2]) }
func (w window) uint32At() uint32 { return binary.LittleEndian.Uint32(w[:4]) }
func (w window) uint64At() uint64 { return binary.LittleEndian.Uint64(w[:8]) }

func (w window) setBool(x bool) {
	if x {
		w[0] = 1
	} else {
		w[0] = 0
	}
}

func (w window) setUint16(x uint16) { binary.LittleEndian.PutUint16(w[:2], x) }
func (w window) setUint32(x uint32) { binary.LittleEndian.PutUint32(w[:4], x) }
func (w window) setUint64(x uint64) { binary.LittleEndian.PutUint64(w[:8], x) }

func (w window) float32At() float32 { return math.Float32frombits(w.uint32At()) }
func (w window) float64At() float64 { return math.Float64frombits(w.uint64At()) }

// uintAt reads an unsigned integer of the window's width.
func (w window) uintAt() uint64 {
	switch len(w) {
	case 1:
		return uint64(w[0])
	case 2:
		return uint64(w.uint16At())
	case 4:
		return uint64(w.uint32At())
	case 8:
		return w.uint64At()
	}
	panic(fmt.Sprintf("value: integer width %d", len(w)))
}

func (w window) setUint(x uint64) {
	switch len(w) {
	case 1:
		w[0] = uint8(x)
	case 2:
		w.setUint16(uint16(x))
	case 4:
		w.setUint32(uint32(x))
	case 8:
		w.setUint64(x)
	default:
		panic(fmt.Sprintf("value: integer width %d", len(w)))
	}
}

// arrayRecord is the decoded {data, length, capacity} record. data is the
// heap segment holding the elements, 0 when nothing is allocated.
type arrayRecord struct {
	data uint64
	len  uint64
	cap  uint64
}

func (w window) record() arrayRecord {
	return arrayRecord{
		data: binary.LittleEndian.Uint64(w[0:8]),
		len:  binary.LittleEndian.Uint64(w[8:16]),
		cap:  binary.LittleEndian.Uint64(w[16:24]),
	}
}

func (w window) setRecord(r arrayRecord) {
	binary.LittleEndian.PutUint64(w[0:8], r.data)
	binary.LittleEndian.PutUint64(w[8:16], r.len)
	binary.LittleEndian.PutUint64(w[16:24], r.cap)
}
