package value

import (
	"strconv"

	"github.com/wippyai/valuestore/layout"
)

// Reference addresses a location inside a value: a sublayout, a segment and
// an offset, plus the generation it was captured at.
//
// A Reference is a plain descriptor. It does not keep the value alive and is
// not an access path; open a View or ViewMut to read or write. Navigation
// methods take the value's read lock briefly and must not be called by a
// goroutine already holding a ViewMut on the same value.
type Reference struct {
	b      *block
	layout layout.Layout
	gen    uint64
	seg    segment
	off    uint32
}

// IsValid reports whether no structural change happened since r was
// captured.
func (r Reference) IsValid() bool {
	return r.b != nil && r.gen == r.b.generation()
}

// Layout returns the addressed sublayout.
func (r Reference) Layout() layout.Layout {
	return r.layout
}

// Offset returns the byte offset inside the addressed segment.
func (r Reference) Offset() uint32 {
	return r.off
}

// Generation returns the generation r was captured at.
func (r Reference) Generation() uint64 {
	return r.gen
}

// Current returns the live generation of the referenced value, or 0 for the
// zero Reference.
func (r Reference) Current() uint64 {
	if r.b == nil {
		return 0
	}
	return r.b.generation()
}

// Field returns the named field of an Object, or the named alternative of a
// Variant when that alternative is active.
func (r Reference) Field(name string) (Reference, bool) {
	if r.b == nil {
		return Reference{}, false
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	return r.field(name)
}

// Index returns element i of an Array, bounds-checked against its live
// length.
func (r Reference) Index(i int) (Reference, bool) {
	if r.b == nil {
		return Reference{}, false
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	return r.index(i)
}

// Item returns position i of a Tuple.
func (r Reference) Item(i int) (Reference, bool) {
	if r.b == nil {
		return Reference{}, false
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	return r.item(i)
}

// Resolve follows a path such as "items[2].name" or "pair.0".
func (r Reference) Resolve(path string) (Reference, bool) {
	if r.b == nil {
		return Reference{}, false
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	return r.resolve(path)
}

// View opens r for reading, blocking until the read lock is acquired.
func (r Reference) View() *View {
	if r.b == nil {
		return &View{ref: r}
	}
	r.b.mu.RLock()
	return &View{ref: r, guard: &guard{b: r.b}}
}

// ViewMut opens r for writing, blocking until the write lock is acquired.
func (r Reference) ViewMut() *ViewMut {
	if r.b == nil {
		return &ViewMut{View{ref: r}}
	}
	r.b.mu.Lock()
	return &ViewMut{View{ref: r, guard: &guard{b: r.b, write: true}}}
}

// The lowercase navigation methods assume the caller holds the block lock.

func (r Reference) child(l layout.Layout, seg segment, off uint32) Reference {
	return Reference{b: r.b, layout: l, gen: r.gen, seg: seg, off: off}
}

func (r Reference) field(name string) (Reference, bool) {
	if !r.IsValid() {
		return Reference{}, false
	}
	switch x := r.layout.(type) {
	case layout.Object:
		m, ok := x.Lookup(name)
		if !ok {
			return Reference{}, false
		}
		return r.child(m.Layout, r.seg, r.off+m.Offset), true
	case layout.Variant:
		m, ok := x.Lookup(name)
		if !ok || r.activeTag(x) != uint64(m.Index) {
			return Reference{}, false
		}
		return r.child(m.Layout, r.seg, r.off+m.Offset), true
	}
	return Reference{}, false
}

func (r Reference) index(i int) (Reference, bool) {
	if !r.IsValid() || i < 0 {
		return Reference{}, false
	}
	arr, ok := r.layout.(layout.Array)
	if !ok {
		return Reference{}, false
	}
	rec := r.b.record(r.seg, r.off)
	if uint64(i) >= rec.len {
		return Reference{}, false
	}
	elem := arr.Elem()
	return r.child(elem, segment(rec.data), uint32(i)*layout.SizeOf(elem)), true
}

func (r Reference) item(i int) (Reference, bool) {
	if !r.IsValid() || i < 0 {
		return Reference{}, false
	}
	tup, ok := r.layout.(layout.Tuple)
	if !ok || i >= tup.Len() {
		return Reference{}, false
	}
	m := tup.Field(i)
	return r.child(m.Layout, r.seg, r.off+m.Offset), true
}

func (r Reference) activeTag(v layout.Variant) uint64 {
	return v.Tag(r.b.at(r.seg, r.off, v.TagSize()))
}

func (r Reference) resolve(path string) (Reference, bool) {
	steps, ok := parsePath(path)
	if !ok {
		return Reference{}, false
	}
	cur := r
	for _, s := range steps {
		var next Reference
		switch {
		case s.indexed:
			if _, isTuple := cur.layout.(layout.Tuple); isTuple {
				next, ok = cur.item(s.index)
			} else {
				next, ok = cur.index(s.index)
			}
		default:
			if _, isTuple := cur.layout.(layout.Tuple); isTuple {
				i, err := strconv.Atoi(s.name)
				if err != nil {
					return Reference{}, false
				}
				next, ok = cur.item(i)
			} else {
				next, ok = cur.field(s.name)
			}
		}
		if !ok {
			return Reference{}, false
		}
		cur = next
	}
	if !cur.IsValid() {
		return Reference{}, false
	}
	return cur, true
}

type step struct {
	name    string
	index   int
	indexed bool
}

// parsePath splits "a.b[2].0" into a, b, [2], 0. The empty path is the
// reference itself.
func parsePath(path string) ([]step, bool) {
	var steps []step
	for i := 0; i < len(path); {
		switch c := path[i]; {
		case c == '.':
			if i == 0 || i == len(path)-1 || path[i+1] == '.' || path[i+1] == '[' {
				return nil, false
			}
			i++
		case c == '[':
			end := i + 1
			for end < len(path) && path[end] != ']' {
				end++
			}
			if end == len(path) {
				return nil, false
			}
			n, err := strconv.Atoi(path[i+1 : end])
			if err != nil || n < 0 {
				return nil, false
			}
			steps = append(steps, step{index: n, indexed: true})
			i = end + 1
		default:
			end := i
			for end < len(path) && path[end] != '.' && path[end] != '[' {
				end++
			}
			steps = append(steps, step{name: path[i:end]})
			i = end
		}
	}
	return steps, true
}
