package layout

import (
	"iter"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout/internal/abi"
	"github.com/wippyai/valuestore/rc"
)

// Field is a named builder input. The builder retains Layout on success;
// the caller keeps its own handle.
type Field struct {
	Layout Layout
	Name   string
}

// Named is shorthand for Field{Name: name, Layout: l}.
func Named(name string, l Layout) Field {
	return Field{Name: name, Layout: l}
}

// Member describes one placed field, tuple item or variant alternative.
// Layout is borrowed from the parent and valid while the parent is held.
type Member struct {
	Layout Layout
	Name   string
	Index  int
	Offset uint32
}

// entry is the stored form of a member.
type entry struct {
	layout Layout
	name   intern.String
	offset uint32
}

// Clone copy-constructs the entry into shared storage.
func (e entry) Clone() entry {
	return entry{layout: Retain(e.layout), name: e.name.Clone(), offset: e.offset}
}

func (e *entry) Release() {
	e.name.Release()
	Release(e.layout)
	e.layout = nil
}

// members is the body shared by Object, Tuple and Variant.
type members struct {
	in    *intern.Interner
	index map[intern.Handle]int
	list  rc.Array[entry]
}

func newMembers(in *intern.Interner, staged []entry, named bool) members {
	m := members{in: in, list: rc.ArrayOf(staged...)}
	dropNames(staged)
	if named {
		m.index = make(map[intern.Handle]int, m.list.Len())
		for i, e := range m.list.All() {
			m.index[e.name.Handle()] = i
		}
	}
	return m
}

func (m *members) release() {
	m.list.Release()
	m.index = nil
}

func (m *members) len() int {
	return m.list.Len()
}

func (m *members) at(i int) Member {
	e := m.list.At(i)
	return Member{Layout: e.layout, Name: e.name.Value(), Index: i, Offset: e.offset}
}

func (m *members) all() iter.Seq[Member] {
	return func(yield func(Member) bool) {
		for i := range m.list.Len() {
			if !yield(m.at(i)) {
				return
			}
		}
	}
}

func (m *members) lookup(name string) (Member, bool) {
	if m.index == nil {
		return Member{}, false
	}
	h, ok := m.in.Lookup(name)
	if !ok {
		return Member{}, false
	}
	i, ok := m.index[h]
	if !ok {
		return Member{}, false
	}
	return m.at(i), true
}

func (m *members) equal(o *members) bool {
	return rc.ArrayEqualFunc(m.list, o.list, func(a, b *entry) bool {
		return a.name.Equal(b.name) && a.offset == b.offset && Equal(a.layout, b.layout)
	})
}

// place assigns sequential offsets: each member is rounded up to its own
// alignment, the total size to the maximum alignment. Names are interned into
// the staged entries; layouts stay borrowed until newMembers clones them.
func place(in *intern.Interner, what string, fields []Field) ([]entry, uint32, uint32, error) {
	staged := make([]entry, len(fields))
	offset := uint32(0)
	maxAlign := uint32(1)

	for i, f := range fields {
		size, align := dispatch(f.Layout)
		start, ok := abi.SafeAlignTo(offset, align)
		if !ok {
			dropNames(staged[:i])
			return nil, 0, 0, errors.Overflow(errors.PhaseLayout, []string{what, f.Name}, offset, "uint32")
		}
		end, ok := abi.SafeAddU32(start, size)
		if !ok {
			dropNames(staged[:i])
			return nil, 0, 0, errors.Overflow(errors.PhaseLayout, []string{what, f.Name}, start, "uint32")
		}
		staged[i] = entry{layout: f.Layout, name: in.Intern(f.Name), offset: start}
		offset = end
		maxAlign = max(maxAlign, align)
	}

	total, ok := abi.SafeAlignTo(offset, maxAlign)
	if !ok {
		dropNames(staged)
		return nil, 0, 0, errors.Overflow(errors.PhaseLayout, []string{what}, offset, "uint32")
	}
	return staged, total, maxAlign, nil
}

// release drops the names of staged entries that never reached storage.
func dropNames(staged []entry) {
	for i := range staged {
		staged[i].name.Release()
	}
}
