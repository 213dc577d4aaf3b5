package layout

// Array is a growable sequence of one element layout. In a value it is stored
// as the 24-byte {data, length, capacity} record.
type Array struct {
	elem *Layout
}

// ArrayOf returns an Array of elem. elem is retained; the caller keeps its
// own handle.
func ArrayOf(elem Layout) Array {
	if elem == nil {
		panic("layout: array of nil element")
	}
	e := Retain(elem)
	return Array{elem: &e}
}

func (Array) Kind() Kind { return KindArray }
func (Array) sealed()    {}

// Elem returns the element layout, nil for the zero Array.
func (a Array) Elem() Layout {
	if a.elem == nil {
		return nil
	}
	return *a.elem
}

func (a Array) String() string {
	if a.elem == nil {
		return "array<>"
	}
	return "array<" + (*a.elem).String() + ">"
}

// clone deep-copies the element slot.
func (a Array) clone() Array {
	if a.elem == nil {
		return a
	}
	return ArrayOf(*a.elem)
}

func (a Array) release() {
	if a.elem == nil {
		return
	}
	Release(*a.elem)
	*a.elem = nil
}
