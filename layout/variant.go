package layout

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/rc"
)

type variantBody struct {
	members
	disc          intern.String
	tagSize       uint32
	payloadOffset uint32
	size          uint32
	align         uint32
}

func (b *variantBody) Release() {
	b.release()
	b.disc.Release()
}

// Variant is a tagged union: a tag of TagSize bytes at offset 0 selects one
// alternative, whose payload lives at PayloadOffset.
type Variant struct {
	body rc.Rc[variantBody]
}

func (Variant) Kind() Kind { return KindVariant }
func (Variant) sealed()    {}

// Valid reports whether v was successfully built and not released.
func (v Variant) Valid() bool { return v.body.Valid() }

// Size returns the tag plus the widest payload, rounded to Align.
func (v Variant) Size() uint32 {
	if b := v.body.Get(); b != nil {
		return b.size
	}
	return 0
}

// Align returns the larger of the tag width and every payload alignment.
func (v Variant) Align() uint32 {
	if b := v.body.Get(); b != nil {
		return b.align
	}
	return 1
}

// Len returns the number of alternatives.
func (v Variant) Len() int {
	if b := v.body.Get(); b != nil {
		return b.len()
	}
	return 0
}

// TagSize returns the tag width in bytes: 1, 2, 4 or 8.
func (v Variant) TagSize() uint32 {
	if b := v.body.Get(); b != nil {
		return b.tagSize
	}
	return 1
}

// PayloadOffset returns where every alternative's payload starts.
func (v Variant) PayloadOffset() uint32 {
	if b := v.body.Get(); b != nil {
		return b.payloadOffset
	}
	return 1
}

// Discriminant returns the external discriminant field name used by stream
// walkers, if one was given.
func (v Variant) Discriminant() (string, bool) {
	b := v.body.Get()
	if b == nil || b.disc.Handle() == intern.Empty {
		return "", false
	}
	return b.disc.Value(), true
}

// Alternative returns alternative i with Offset set to the payload offset.
// It panics if i is out of range.
func (v Variant) Alternative(i int) Member {
	b := v.body.Get()
	m := b.at(i)
	m.Offset = b.payloadOffset
	return m
}

// Alternatives iterates the alternatives in declaration order.
func (v Variant) Alternatives() iter.Seq[Member] {
	return func(yield func(Member) bool) {
		for i := range v.Len() {
			if !yield(v.Alternative(i)) {
				return
			}
		}
	}
}

// Lookup finds an alternative by name.
func (v Variant) Lookup(name string) (Member, bool) {
	b := v.body.Get()
	if b == nil {
		return Member{}, false
	}
	m, ok := b.lookup(name)
	if ok {
		m.Offset = b.payloadOffset
	}
	return m, ok
}

// Tag reads the tag stored at the start of buf.
func (v Variant) Tag(buf []byte) uint64 {
	switch w := v.TagSize(); w {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[:2]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[:4]))
	case 8:
		return binary.LittleEndian.Uint64(buf[:8])
	default:
		panic(fmt.Sprintf("layout: unrecognized tag width %d", w))
	}
}

// PutTag stores tag at the start of buf.
func (v Variant) PutTag(buf []byte, tag uint64) {
	switch w := v.TagSize(); w {
	case 1:
		buf[0] = uint8(tag)
	case 2:
		binary.LittleEndian.PutUint16(buf[:2], uint16(tag))
	case 4:
		binary.LittleEndian.PutUint32(buf[:4], uint32(tag))
	case 8:
		binary.LittleEndian.PutUint64(buf[:8], tag)
	default:
		panic(fmt.Sprintf("layout: unrecognized tag width %d", w))
	}
}

func (v Variant) String() string {
	var sb strings.Builder
	sb.WriteString("variant")
	if d, ok := v.Discriminant(); ok {
		sb.WriteByte('[')
		sb.WriteString(d)
		sb.WriteByte(']')
	}
	sb.WriteByte('{')
	for m := range v.Alternatives() {
		if m.Index > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Name)
		sb.WriteString(": ")
		sb.WriteString(m.Layout.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (v Variant) equal(w Variant) bool {
	return rc.EqualFunc(v.body, w.body, func(a, b *variantBody) bool {
		return a.disc.Equal(b.disc) && a.members.equal(&b.members)
	})
}
