package layout

import "strconv"

// Entry is one node visited by Walk.
type Entry struct {
	Layout Layout
	Path   string
	// Offset is relative to the root, or to the start of the innermost
	// array element when Indirect > 0.
	Offset   uint32
	Depth    int
	Indirect int
}

// Walk visits l and every nested layout depth first. Object fields and
// variant alternatives extend the path with ".name", tuple items with
// ".index" and array elements with "[]". Returning false from fn skips the
// children of that entry.
func Walk(l Layout, fn func(Entry) bool) {
	walk(Entry{Layout: l}, fn)
}

func walk(e Entry, fn func(Entry) bool) {
	if !fn(e) {
		return
	}
	child := func(path string, l Layout, offset uint32) {
		walk(Entry{Layout: l, Path: path, Offset: offset, Depth: e.Depth + 1, Indirect: e.Indirect}, fn)
	}
	switch x := e.Layout.(type) {
	case Object:
		for m := range x.Fields() {
			child(join(e.Path, m.Name), m.Layout, e.Offset+m.Offset)
		}
	case Tuple:
		for m := range x.Fields() {
			child(join(e.Path, strconv.Itoa(m.Index)), m.Layout, e.Offset+m.Offset)
		}
	case Variant:
		for m := range x.Alternatives() {
			child(join(e.Path, m.Name), m.Layout, e.Offset+m.Offset)
		}
	case Array:
		if elem := x.Elem(); elem != nil {
			walk(Entry{Layout: elem, Path: e.Path + "[]", Depth: e.Depth + 1, Indirect: e.Indirect + 1}, fn)
		}
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
