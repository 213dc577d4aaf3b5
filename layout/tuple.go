package layout

import (
	"iter"
	"strings"

	"github.com/wippyai/valuestore/rc"
)

type tupleBody struct {
	members
	size  uint32
	align uint32
}

func (b *tupleBody) Release() { b.release() }

// Tuple is an ordered list of unnamed fields placed like an Object.
type Tuple struct {
	body rc.Rc[tupleBody]
}

func (Tuple) Kind() Kind { return KindTuple }
func (Tuple) sealed()    {}

// Valid reports whether t holds a live body.
func (t Tuple) Valid() bool { return t.body.Valid() }

// Size returns the byte size including trailing padding.
func (t Tuple) Size() uint32 {
	if b := t.body.Get(); b != nil {
		return b.size
	}
	return 0
}

// Align returns the largest item alignment, at least 1.
func (t Tuple) Align() uint32 {
	if b := t.body.Get(); b != nil {
		return b.align
	}
	return 1
}

// Len returns the number of items.
func (t Tuple) Len() int {
	if b := t.body.Get(); b != nil {
		return b.len()
	}
	return 0
}

// Field returns item i. It panics if i is out of range.
func (t Tuple) Field(i int) Member {
	return t.body.Get().at(i)
}

// Fields iterates the items in order.
func (t Tuple) Fields() iter.Seq[Member] {
	b := t.body.Get()
	if b == nil {
		return func(func(Member) bool) {}
	}
	return b.all()
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("tuple<")
	for m := range t.Fields() {
		if m.Index > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Layout.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t Tuple) equal(u Tuple) bool {
	return rc.EqualFunc(t.body, u.body, func(a, b *tupleBody) bool {
		return a.members.equal(&b.members)
	})
}
