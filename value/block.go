package value

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout"
)

// block is one allocated value: a reference count, the retained layout, a
// reader/writer lock, the generation and the payload with its array heap.
type block struct {
	layout layout.Layout
	in     *intern.Interner
	root   []byte
	heap   heap
	opts   Options
	refs   atomic.Int64
	gen    atomic.Uint64
	mu     sync.RWMutex
}

func newBlock(l layout.Layout, opts Options) *block {
	opts = opts.normalized()
	b := &block{
		layout: layout.Retain(l),
		in:     opts.Interner,
		opts:   opts,
		root:   make([]byte, layout.SizeOf(l)),
	}
	layout.Initialize(b.layout, b.root)
	b.refs.Store(1)
	return b
}

func (b *block) generation() uint64 {
	return b.gen.Load()
}

// bump invalidates every reference captured before the call.
func (b *block) bump() uint64 {
	return b.gen.Add(1)
}

func (b *block) buffer(seg segment) []byte {
	if seg == rootSegment {
		return b.root
	}
	return b.heap.get(seg)
}

// at returns the bounds-checked window [off, off+size) of seg.
func (b *block) at(seg segment, off, size uint32) window {
	buf := b.buffer(seg)
	if uint64(off)+uint64(size) > uint64(len(buf)) {
		panic(fmt.Sprintf("value: access [%d, %d) outside segment %d of %d bytes", off, uint64(off)+uint64(size), seg, len(buf)))
	}
	return window(buf[off : off+size : off+size])
}

func (b *block) record(seg segment, off uint32) arrayRecord {
	return b.at(seg, off, layout.ArrayRecordSize).record()
}

// destroy releases everything the block owns. The caller holds the write lock.
func (b *block) destroy() {
	if b.root == nil {
		return
	}
	ce := Logger().Check(zap.DebugLevel, "value released")
	if ce != nil {
		ce.Write(zap.Stringer("layout", b.layout))
	}
	b.releaseAt(b.layout, rootSegment, 0)
	b.heap.reset()
	b.root = nil
	layout.Release(b.layout)
	b.bump()
}

// releaseAt drops interned strings and frees array storage nested under the
// value of layout l at (seg, off). Bytes are left in place.
func (b *block) releaseAt(l layout.Layout, seg segment, off uint32) {
	switch x := l.(type) {
	case layout.Primitive:
		if x == layout.String {
			h := intern.HandleAt(b.at(seg, off, intern.HandleSize))
			b.in.RemoveRef(h)
		}
	case layout.Object:
		for m := range x.Fields() {
			b.releaseAt(m.Layout, seg, off+m.Offset)
		}
	case layout.Tuple:
		for m := range x.Fields() {
			b.releaseAt(m.Layout, seg, off+m.Offset)
		}
	case layout.Variant:
		tag := x.Tag(b.at(seg, off, x.TagSize()))
		if tag >= uint64(x.Len()) {
			panic(fmt.Sprintf("value: unrecognized tag %d for %s", tag, x))
		}
		b.releaseAt(x.Alternative(int(tag)).Layout, seg, off+x.PayloadOffset())
	case layout.Array:
		rec := b.record(seg, off)
		if rec.data == 0 {
			return
		}
		elem := x.Elem()
		size := layout.SizeOf(elem)
		for i := range uint32(rec.len) {
			b.releaseAt(elem, segment(rec.data), i*size)
		}
		b.heap.free(segment(rec.data))
	}
}

// push appends a default element to the array at (seg, off) and returns the
// element's location. The caller holds the write lock.
func (b *block) push(arr layout.Array, seg segment, off uint32) (segment, uint32) {
	rec := b.record(seg, off)
	elem := arr.Elem()
	size := layout.SizeOf(elem)

	if rec.len == rec.cap {
		newCap := max(rec.cap*2, uint64(b.opts.InitialArrayCapacity))
		bytes := newCap * uint64(size)
		if bytes > maxSegmentSize {
			panic(fmt.Sprintf("value: array of %s grows past %d bytes", elem, maxSegmentSize))
		}
		grown := make([]byte, bytes)
		if rec.data == 0 {
			rec.data = uint64(b.heap.alloc(grown))
		} else {
			copy(grown, b.heap.get(segment(rec.data)))
			b.heap.replace(segment(rec.data), grown)
		}
		Logger().Debug("array grown",
			zap.Stringer("elem", elem),
			zap.Uint64("from", rec.cap),
			zap.Uint64("to", newCap))
		rec.cap = newCap
	}

	elemOff := uint32(rec.len * uint64(size))
	layout.Initialize(elem, b.at(segment(rec.data), elemOff, size))
	rec.len++
	b.at(seg, off, layout.ArrayRecordSize).setRecord(rec)
	return segment(rec.data), elemOff
}

// switchVariant makes alternative idx active in the variant at (seg, off).
func (b *block) switchVariant(v layout.Variant, seg segment, off uint32, idx int) {
	w := b.at(seg, off, v.Size())
	tag := v.Tag(w)
	if tag == uint64(idx) {
		return
	}
	if tag < uint64(v.Len()) {
		b.releaseAt(v.Alternative(int(tag)).Layout, seg, off+v.PayloadOffset())
	}
	clear(w)
	v.PutTag(w, uint64(idx))
	layout.Initialize(v.Alternative(idx).Layout, w[v.PayloadOffset():])
	Logger().Debug("variant switched",
		zap.Stringer("variant", v),
		zap.Uint64("from", tag),
		zap.Int("to", idx))
}
