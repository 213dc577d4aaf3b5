package value

import (
	"math"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout"
)

// ViewMut is a Reference with the value's write lock held. It has every
// getter of View plus in-place setters, array pushes and variant switches.
//
// Setters return false, writing nothing, when the view is stale or closed or
// the addressed layout is not the setter's kind.
type ViewMut struct {
	View
}

func (m *ViewMut) derive(r Reference) *ViewMut {
	return &ViewMut{View{ref: r, guard: m.guard, parent: &m.View}}
}

// Field navigates to a named field or the active named alternative.
func (m *ViewMut) Field(name string) (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	r, ok := m.ref.field(name)
	if !ok {
		return nil, false
	}
	return m.derive(r), true
}

// Index navigates to array element i.
func (m *ViewMut) Index(i int) (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	r, ok := m.ref.index(i)
	if !ok {
		return nil, false
	}
	return m.derive(r), true
}

// Item navigates to tuple position i.
func (m *ViewMut) Item(i int) (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	r, ok := m.ref.item(i)
	if !ok {
		return nil, false
	}
	return m.derive(r), true
}

// Resolve navigates a path relative to the view.
func (m *ViewMut) Resolve(path string) (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	r, ok := m.ref.resolve(path)
	if !ok {
		return nil, false
	}
	return m.derive(r), true
}

// Variant returns a mutable view of the active alternative's payload.
func (m *ViewMut) Variant() (*ViewMut, bool) {
	name, ok := m.VariantName()
	if !ok {
		return nil, false
	}
	return m.Field(name)
}

// refresh moves this view and the views it was navigated from to the
// current generation after a structural change made through it.
func (m *ViewMut) refresh() {
	gen := m.ref.b.generation()
	for v := &m.View; v != nil; v = v.parent {
		v.ref.gen = gen
	}
}

// SetBool stores x. It reports false, writing nothing, when the view is
// stale or addresses another kind.
func (m *ViewMut) SetBool(x bool) bool {
	w, ok := m.scalar(layout.KindBool)
	if ok {
		w.setBool(x)
	}
	return ok
}

// SetInt8 stores x into the addressed int8.
func (m *ViewMut) SetInt8(x int8) bool {
	w, ok := m.scalar(layout.KindInt8)
	if ok {
		w[0] = uint8(x)
	}
	return ok
}

// SetUint8 stores x into the addressed uint8.
func (m *ViewMut) SetUint8(x uint8) bool {
	w, ok := m.scalar(layout.KindUint8)
	if ok {
		w[0] = x
	}
	return ok
}

// SetInt16 stores x into the addressed int16.
func (m *ViewMut) SetInt16(x int16) bool {
	w, ok := m.scalar(layout.KindInt16)
	if ok {
		w.setUint16(uint16(x))
	}
	return ok
}

// SetUint16 stores x into the addressed uint16.
func (m *ViewMut) SetUint16(x uint16) bool {
	w, ok := m.scalar(layout.KindUint16)
	if ok {
		w.setUint16(x)
	}
	return ok
}

// SetInt32 stores x into the addressed int32.
func (m *ViewMut) SetInt32(x int32) bool {
	w, ok := m.scalar(layout.KindInt32)
	if ok {
		w.setUint32(uint32(x))
	}
	return ok
}

// SetUint32 stores x into the addressed uint32.
func (m *ViewMut) SetUint32(x uint32) bool {
	w, ok := m.scalar(layout.KindUint32)
	if ok {
		w.setUint32(x)
	}
	return ok
}

// SetInt64 stores x into the addressed int64.
func (m *ViewMut) SetInt64(x int64) bool {
	w, ok := m.scalar(layout.KindInt64)
	if ok {
		w.setUint64(uint64(x))
	}
	return ok
}

// SetUint64 stores x into the addressed uint64.
func (m *ViewMut) SetUint64(x uint64) bool {
	w, ok := m.scalar(layout.KindUint64)
	if ok {
		w.setUint64(x)
	}
	return ok
}

// SetFloat32 stores x into the addressed float32.
func (m *ViewMut) SetFloat32(x float32) bool {
	w, ok := m.scalar(layout.KindFloat32)
	if ok {
		w.setUint32(math.Float32bits(x))
	}
	return ok
}

// SetFloat64 stores x into the addressed float64.
func (m *ViewMut) SetFloat64(x float64) bool {
	w, ok := m.scalar(layout.KindFloat64)
	if ok {
		w.setUint64(math.Float64bits(x))
	}
	return ok
}

// SetString interns s and stores its handle. The new handle is acquired
// before the old one is released.
func (m *ViewMut) SetString(s string) bool {
	w, ok := m.scalar(layout.KindString)
	if !ok {
		return false
	}
	in := m.ref.b.in
	next := in.Acquire(s)
	prev := intern.HandleAt(w)
	intern.PutHandle(w, next)
	in.RemoveRef(prev)
	return true
}

// SetEnumIndex stores index i of an enum field.
func (m *ViewMut) SetEnumIndex(i int) bool {
	w, ok := m.scalar(layout.KindEnum)
	if !ok {
		return false
	}
	e := m.ref.layout.(layout.Enum)
	if i < 0 || i >= e.Len() || uint64(i) > e.Backing().Max() {
		return false
	}
	w.setUint(uint64(i))
	return true
}

// SetEnum stores the enum value called name.
func (m *ViewMut) SetEnum(name string) bool {
	if m.Kind() != layout.KindEnum || !m.Valid() {
		return false
	}
	i, ok := m.ref.layout.(layout.Enum).Lookup(name)
	if !ok {
		return false
	}
	return m.SetEnumIndex(i)
}

// SetVariant makes the named alternative active and returns a view of its
// default-initialized payload. The previous payload is released and the
// generation bumped, so references into it go stale. Selecting the active
// alternative changes nothing.
func (m *ViewMut) SetVariant(name string) (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	v, ok := m.ref.layout.(layout.Variant)
	if !ok {
		return nil, false
	}
	alt, ok := v.Lookup(name)
	if !ok {
		return nil, false
	}
	if m.ref.activeTag(v) != uint64(alt.Index) {
		m.ref.b.switchVariant(v, m.ref.seg, m.ref.off, alt.Index)
		m.ref.b.bump()
		m.refresh()
	}
	return m.Field(name)
}

// Push appends a default-initialized element to an array and returns a view
// of it. Storage doubles when full and never shrinks. Every push bumps the
// generation: references into the value captured before it go stale, while
// this view and the views it was navigated from stay current.
func (m *ViewMut) Push() (*ViewMut, bool) {
	if !m.Valid() {
		return nil, false
	}
	arr, ok := m.ref.layout.(layout.Array)
	if !ok {
		return nil, false
	}
	seg, off := m.ref.b.push(arr, m.ref.seg, m.ref.off)
	m.ref.b.bump()
	m.refresh()
	return m.derive(m.ref.child(arr.Elem(), seg, off)), true
}

// PushBool appends x to an array of bool.
func (m *ViewMut) PushBool(x bool) bool {
	e, ok := m.pushKind(layout.KindBool)
	return ok && e.SetBool(x)
}

// PushInt8 appends x to an array of int8.
func (m *ViewMut) PushInt8(x int8) bool {
	e, ok := m.pushKind(layout.KindInt8)
	return ok && e.SetInt8(x)
}

// PushUint8 appends x to an array of uint8.
func (m *ViewMut) PushUint8(x uint8) bool {
	e, ok := m.pushKind(layout.KindUint8)
	return ok && e.SetUint8(x)
}

// PushInt16 appends x to an array of int16.
func (m *ViewMut) PushInt16(x int16) bool {
	e, ok := m.pushKind(layout.KindInt16)
	return ok && e.SetInt16(x)
}

// PushUint16 appends x to an array of uint16.
func (m *ViewMut) PushUint16(x uint16) bool {
	e, ok := m.pushKind(layout.KindUint16)
	return ok && e.SetUint16(x)
}

// PushInt32 appends x to an array of int32.
func (m *ViewMut) PushInt32(x int32) bool {
	e, ok := m.pushKind(layout.KindInt32)
	return ok && e.SetInt32(x)
}

// PushUint32 appends x to an array of uint32.
func (m *ViewMut) PushUint32(x uint32) bool {
	e, ok := m.pushKind(layout.KindUint32)
	return ok && e.SetUint32(x)
}

// PushInt64 appends x to an array of int64.
func (m *ViewMut) PushInt64(x int64) bool {
	e, ok := m.pushKind(layout.KindInt64)
	return ok && e.SetInt64(x)
}

// PushUint64 appends x to an array of uint64.
func (m *ViewMut) PushUint64(x uint64) bool {
	e, ok := m.pushKind(layout.KindUint64)
	return ok && e.SetUint64(x)
}

// PushFloat32 appends x to an array of float32.
func (m *ViewMut) PushFloat32(x float32) bool {
	e, ok := m.pushKind(layout.KindFloat32)
	return ok && e.SetFloat32(x)
}

// PushFloat64 appends x to an array of float64.
func (m *ViewMut) PushFloat64(x float64) bool {
	e, ok := m.pushKind(layout.KindFloat64)
	return ok && e.SetFloat64(x)
}

// PushString appends s to an array of string.
func (m *ViewMut) PushString(s string) bool {
	e, ok := m.pushKind(layout.KindString)
	return ok && e.SetString(s)
}

// pushKind pushes only when the element kind is k, so a mismatched typed
// push leaves the array unchanged.
func (m *ViewMut) pushKind(k layout.Kind) (*ViewMut, bool) {
	arr, ok := m.ref.layout.(layout.Array)
	if !ok || arr.Elem().Kind() != k {
		return nil, false
	}
	return m.Push()
}
