package layout

import (
	"iter"
	"strings"

	"github.com/wippyai/valuestore/rc"
)

type objectBody struct {
	members
	size  uint32
	align uint32
}

func (b *objectBody) Release() { b.release() }

// Object is an ordered list of named fields placed at padded offsets.
// The zero Object is the absent result of a failed build.
type Object struct {
	body rc.Rc[objectBody]
}

func (Object) Kind() Kind { return KindObject }
func (Object) sealed()    {}

// Valid reports whether o was successfully built and not released.
func (o Object) Valid() bool { return o.body.Valid() }

// Size returns the byte size including trailing padding, 0 for a zero Object.
func (o Object) Size() uint32 {
	if b := o.body.Get(); b != nil {
		return b.size
	}
	return 0
}

// Align returns the largest field alignment, at least 1.
func (o Object) Align() uint32 {
	if b := o.body.Get(); b != nil {
		return b.align
	}
	return 1
}

// Len returns the number of fields.
func (o Object) Len() int {
	if b := o.body.Get(); b != nil {
		return b.len()
	}
	return 0
}

// Field returns field i. It panics if i is out of range.
func (o Object) Field(i int) Member {
	return o.body.Get().at(i)
}

// Fields iterates the fields in declaration order.
func (o Object) Fields() iter.Seq[Member] {
	b := o.body.Get()
	if b == nil {
		return func(func(Member) bool) {}
	}
	return b.all()
}

// Lookup finds a field by name without interning name.
func (o Object) Lookup(name string) (Member, bool) {
	b := o.body.Get()
	if b == nil {
		return Member{}, false
	}
	return b.lookup(name)
}

func (o Object) String() string {
	var sb strings.Builder
	sb.WriteString("object{")
	for m := range o.Fields() {
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

func (o Object) equal(p Object) bool {
	return rc.EqualFunc(o.body, p.body, func(a, b *objectBody) bool {
		return a.members.equal(&b.members)
	})
}
