package value

import "fmt"

// segment identifies a byte buffer owned by a block. Segment 0 is the root
// payload; heap segments are numbered from 1 and stored in array records.
type segment = uint32

const rootSegment segment = 0

// maxSegmentSize bounds a single element buffer; offsets are uint32.
const maxSegmentSize = 1 << 31

// heap holds the element buffers of every array in a block. It is guarded
// by the owning block's lock.
type heap struct {
	slots    [][]byte
	live     []bool
	freeList []segment
}

// alloc stores buf and returns its segment.
func (h *heap) alloc(buf []byte) segment {
	if len(h.freeList) > 0 {
		seg := h.freeList[len(h.freeList)-1]
		h.freeList = h.freeList[:len(h.freeList)-1]
		h.slots[seg-1] = buf
		h.live[seg-1] = true
		return seg
	}
	h.slots = append(h.slots, buf)
	h.live = append(h.live, true)
	return segment(len(h.slots))
}

// replace swaps the buffer behind seg, keeping the segment number.
func (h *heap) replace(seg segment, buf []byte) {
	h.check(seg)
	h.slots[seg-1] = buf
}

func (h *heap) get(seg segment) []byte {
	h.check(seg)
	return h.slots[seg-1]
}

// free drops the buffer behind seg and recycles the segment number.
func (h *heap) free(seg segment) {
	h.check(seg)
	h.slots[seg-1] = nil
	h.live[seg-1] = false
	h.freeList = append(h.freeList, seg)
}

// len returns the number of live segments.
func (h *heap) len() int {
	return len(h.slots) - len(h.freeList)
}

func (h *heap) reset() {
	h.slots = nil
	h.live = nil
	h.freeList = nil
}

func (h *heap) check(seg segment) {
	if seg == rootSegment || int(seg) > len(h.slots) || !h.live[seg-1] {
		panic(fmt.Sprintf("value: heap segment %d is not allocated", seg))
	}
}
