package value

import (
	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout"
)

// guard is a held block lock shared by a view and the children navigated
// from it.
type guard struct {
	b     *block
	write bool
	done  bool
}

func (g *guard) unlock() {
	if g.done {
		return
	}
	g.done = true
	if g.write {
		g.b.mu.Unlock()
	} else {
		g.b.mu.RUnlock()
	}
}

// View is a Reference with the value's read lock held. Getters return the
// absent result when the reference is stale, the view is closed, or the
// addressed layout is not the requested kind.
//
// Views navigated from another view borrow its lock; closing them never
// releases it. Close the view returned by Reference.View exactly when done,
// typically with defer. Close is idempotent.
type View struct {
	ref    Reference
	guard  *guard
	parent *View
	closed bool
}

// Close releases the lock held by a root view.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.parent == nil && v.guard != nil {
		v.guard.unlock()
	}
}

// Valid reports whether the view is open and its reference is current.
func (v *View) Valid() bool {
	return v.guard != nil && !v.guard.done && !v.closed && v.ref.IsValid()
}

// Reference returns the location of the view.
func (v *View) Reference() Reference {
	return v.ref
}

// Layout returns the layout of the addressed value.
func (v *View) Layout() layout.Layout {
	return v.ref.layout
}

// Kind returns the kind of the addressed layout.
func (v *View) Kind() layout.Kind {
	if v.ref.layout == nil {
		return layout.KindUnit
	}
	return v.ref.layout.Kind()
}

func (v *View) derive(r Reference) *View {
	return &View{ref: r, guard: v.guard, parent: v}
}

// Field navigates to a named field or the active named alternative.
func (v *View) Field(name string) (*View, bool) {
	if !v.Valid() {
		return nil, false
	}
	r, ok := v.ref.field(name)
	if !ok {
		return nil, false
	}
	return v.derive(r), true
}

// Index navigates to array element i.
func (v *View) Index(i int) (*View, bool) {
	if !v.Valid() {
		return nil, false
	}
	r, ok := v.ref.index(i)
	if !ok {
		return nil, false
	}
	return v.derive(r), true
}

// Item navigates to tuple position i.
func (v *View) Item(i int) (*View, bool) {
	if !v.Valid() {
		return nil, false
	}
	r, ok := v.ref.item(i)
	if !ok {
		return nil, false
	}
	return v.derive(r), true
}

// Resolve navigates a path relative to the view.
func (v *View) Resolve(path string) (*View, bool) {
	if !v.Valid() {
		return nil, false
	}
	r, ok := v.ref.resolve(path)
	if !ok {
		return nil, false
	}
	return v.derive(r), true
}

// scalar returns the bytes of the addressed value if it has kind k.
func (v *View) scalar(k layout.Kind) (window, bool) {
	if !v.Valid() || v.ref.layout.Kind() != k {
		return nil, false
	}
	return v.ref.b.at(v.ref.seg, v.ref.off, layout.SizeOf(v.ref.layout)), true
}

// Bool returns the addressed bool. The second result is false when the view
// is stale or addresses another kind.
func (v *View) Bool() (bool, bool) {
	w, ok := v.scalar(layout.KindBool)
	if !ok {
		return false, false
	}
	return w.boolAt(), true
}

// Int8 returns the addressed int8.
func (v *View) Int8() (int8, bool) {
	w, ok := v.scalar(layout.KindInt8)
	if !ok {
		return 0, false
	}
	return int8(w[0]), true
}

// Uint8 returns the addressed uint8.
func (v *View) Uint8() (uint8, bool) {
	w, ok := v.scalar(layout.KindUint8)
	if !ok {
		return 0, false
	}
	return w[0], true
}

// Int16 returns the addressed int16.
func (v *View) Int16() (int16, bool) {
	w, ok := v.scalar(layout.KindInt16)
	if !ok {
		return 0, false
	}
	return int16(w.uint16At()), true
}

// Uint16 returns the addressed uint16.
func (v *View) Uint16() (uint16, bool) {
	w, ok := v.scalar(layout.KindUint16)
	if !ok {
		return 0, false
	}
	return w.uint16At(), true
}

// Int32 returns the addressed int32.
func (v *View) Int32() (int32, bool) {
	w, ok := v.scalar(layout.KindInt32)
	if !ok {
		return 0, false
	}
	return int32(w.uint32At()), true
}

// Uint32 returns the addressed uint32.
func (v *View) Uint32() (uint32, bool) {
	w, ok := v.scalar(layout.KindUint32)
	if !ok {
		return 0, false
	}
	return w.uint32At(), true
}

// Int64 returns the addressed int64.
func (v *View) Int64() (int64, bool) {
	w, ok := v.scalar(layout.KindInt64)
	if !ok {
		return 0, false
	}
	return int64(w.uint64At()), true
}

// Uint64 returns the addressed uint64.
func (v *View) Uint64() (uint64, bool) {
	w, ok := v.scalar(layout.KindUint64)
	if !ok {
		return 0, false
	}
	return w.uint64At(), true
}

// Float32 returns the addressed float32.
func (v *View) Float32() (float32, bool) {
	w, ok := v.scalar(layout.KindFloat32)
	if !ok {
		return 0, false
	}
	return w.float32At(), true
}

// Float64 returns the addressed float64.
func (v *View) Float64() (float64, bool) {
	w, ok := v.scalar(layout.KindFloat64)
	if !ok {
		return 0, false
	}
	return w.float64At(), true
}

// String returns the content of a string field.
func (v *View) String() (string, bool) {
	w, ok := v.scalar(layout.KindString)
	if !ok {
		return "", false
	}
	return v.ref.b.in.Get(intern.HandleAt(w)), true
}

// EnumIndex returns the stored index of an enum field. A stored value
// outside the enum is reported as absent.
func (v *View) EnumIndex() (int, bool) {
	w, ok := v.scalar(layout.KindEnum)
	if !ok {
		return 0, false
	}
	idx := w.uintAt()
	if idx >= uint64(v.ref.layout.(layout.Enum).Len()) {
		return 0, false
	}
	return int(idx), true
}

// Enum returns the name of the stored enum value.
func (v *View) Enum() (string, bool) {
	idx, ok := v.EnumIndex()
	if !ok {
		return "", false
	}
	return v.ref.layout.(layout.Enum).Name(idx)
}

// VariantIndex returns the index of the active alternative.
func (v *View) VariantIndex() (int, bool) {
	if !v.Valid() {
		return 0, false
	}
	x, ok := v.ref.layout.(layout.Variant)
	if !ok {
		return 0, false
	}
	tag := v.ref.activeTag(x)
	if tag >= uint64(x.Len()) {
		return 0, false
	}
	return int(tag), true
}

// VariantName returns the name of the active alternative.
func (v *View) VariantName() (string, bool) {
	idx, ok := v.VariantIndex()
	if !ok {
		return "", false
	}
	return v.ref.layout.(layout.Variant).Alternative(idx).Name, true
}

// Variant returns a view of the active alternative's payload.
func (v *View) Variant() (*View, bool) {
	name, ok := v.VariantName()
	if !ok {
		return nil, false
	}
	return v.Field(name)
}

// Len returns the live length of an array.
func (v *View) Len() (int, bool) {
	if !v.Valid() || v.ref.layout.Kind() != layout.KindArray {
		return 0, false
	}
	return int(v.ref.b.record(v.ref.seg, v.ref.off).len), true
}

// Cap returns the allocated capacity of an array.
func (v *View) Cap() (int, bool) {
	if !v.Valid() || v.ref.layout.Kind() != layout.KindArray {
		return 0, false
	}
	return int(v.ref.b.record(v.ref.seg, v.ref.off).cap), true
}
