package layout

import (
	"iter"
	"strings"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/rc"
)

type enumBody struct {
	in      *intern.Interner
	index   map[intern.Handle]int
	names   rc.Array[intern.String]
	backing Integral
}

func (b *enumBody) Release() {
	b.names.Release()
	b.index = nil
}

// Enum is an ordered set of distinct names stored as a backing integer.
type Enum struct {
	body rc.Rc[enumBody]
}

func (Enum) Kind() Kind { return KindEnum }
func (Enum) sealed()    {}

// Valid reports whether e was successfully built and not released.
func (e Enum) Valid() bool { return e.body.Valid() }

// Backing returns the integral kind the index is stored as.
func (e Enum) Backing() Integral {
	if b := e.body.Get(); b != nil {
		return b.backing
	}
	return Uint32
}

// Len returns the number of names.
func (e Enum) Len() int {
	if b := e.body.Get(); b != nil {
		return b.names.Len()
	}
	return 0
}

// Name returns the name at index i.
func (e Enum) Name(i int) (string, bool) {
	if i < 0 || i >= e.Len() {
		return "", false
	}
	return e.body.Get().names.At(i).Value(), true
}

// Names iterates the names in index order.
func (e Enum) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := range e.Len() {
			if !yield(e.body.Get().names.At(i).Value()) {
				return
			}
		}
	}
}

// Lookup returns the index of name.
func (e Enum) Lookup(name string) (int, bool) {
	b := e.body.Get()
	if b == nil {
		return 0, false
	}
	h, ok := b.in.Lookup(name)
	if !ok {
		return 0, false
	}
	i, ok := b.index[h]
	return i, ok
}

func (e Enum) String() string {
	var sb strings.Builder
	sb.WriteString("enum<")
	sb.WriteString(e.Backing().String())
	sb.WriteString(">{")
	i := 0
	for name := range e.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		i++
	}
	sb.WriteByte('}')
	return sb.String()
}

func (e Enum) equal(f Enum) bool {
	return rc.EqualFunc(e.body, f.body, func(a, b *enumBody) bool {
		return a.backing == b.backing && rc.ArrayEqualFunc(a.names, b.names, func(x, y *intern.String) bool {
			return x.Equal(*y)
		})
	})
}
