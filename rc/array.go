package rc

import (
	"iter"
	"sync/atomic"
)

type arrayBox[T any] struct {
	elems []T
	refs  atomic.Int64
}

// Array is a reference counted, fixed-length array of immutable elements.
type Array[T any] struct {
	box *arrayBox[T]
}

// ArrayOf copy-constructs elems into a new shared array.
func ArrayOf[T any](elems ...T) Array[T] {
	b := &arrayBox[T]{elems: make([]T, len(elems))}
	for i, e := range elems {
		b.elems[i] = cloneElem(e)
	}
	b.refs.Store(1)
	return Array[T]{box: b}
}

// Collect copy-constructs every element of seq into a new shared array.
func Collect[T any](seq iter.Seq[T]) Array[T] {
	b := &arrayBox[T]{}
	for e := range seq {
		b.elems = append(b.elems, cloneElem(e))
	}
	b.elems = b.elems[:len(b.elems):len(b.elems)]
	b.refs.Store(1)
	return Array[T]{box: b}
}

func cloneElem[T any](e T) T {
	if c, ok := any(e).(Cloner[T]); ok {
		return c.Clone()
	}
	return e
}

// Valid reports whether the handle references a live array.
func (a Array[T]) Valid() bool {
	return a.box != nil
}

// Len returns the number of elements.
func (a Array[T]) Len() int {
	if a.box == nil {
		return 0
	}
	return len(a.box.elems)
}

// At returns element i. It panics if i is out of range.
func (a Array[T]) At(i int) *T {
	if a.box == nil || i < 0 || i >= len(a.box.elems) {
		panic("rc: array index out of range")
	}
	return &a.box.elems[i]
}

// All iterates over index/element pairs in order.
func (a Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if a.box == nil {
			return
		}
		for i, e := range a.box.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Values iterates over the elements in order.
func (a Array[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if a.box == nil {
			return
		}
		for _, e := range a.box.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Count returns the current strong count, 0 for an empty handle.
func (a Array[T]) Count() int64 {
	if a.box == nil {
		return 0
	}
	return a.box.refs.Load()
}

// Clone increments the count and returns a new handle to the same array.
func (a Array[T]) Clone() Array[T] {
	if a.box == nil {
		return a
	}
	a.box.refs.Add(1)
	return a
}

// Take moves the handle out of a, leaving a empty.
func (a *Array[T]) Take() Array[T] {
	out := *a
	a.box = nil
	return out
}

// Release decrements the count and clears a. When the count reaches zero every
// element implementing Releaser is released, in order.
func (a *Array[T]) Release() {
	b := a.box
	if b == nil {
		return
	}
	a.box = nil
	switch n := b.refs.Add(-1); {
	case n == 0:
		for i := range b.elems {
			if rel, ok := any(&b.elems[i]).(Releaser); ok {
				rel.Release()
			}
		}
		b.elems = nil
	case n < 0:
		panic("rc: release of a dropped array")
	}
}

// Assign makes a share o's storage, releasing a's previous storage.
func (a *Array[T]) Assign(o Array[T]) {
	if a.box == o.box {
		return
	}
	next := o.Clone()
	a.Release()
	*a = next
}

// ArraySame reports whether a and b reference the same allocation.
func ArraySame[T any](a, b Array[T]) bool {
	return a.box == b.box
}

// ArrayEqual compares lengths and elements pairwise, short-circuiting on identity.
func ArrayEqual[T comparable](a, b Array[T]) bool {
	return ArrayEqualFunc(a, b, func(x, y *T) bool { return *x == *y })
}

// ArrayEqualFunc is ArrayEqual with a caller-supplied element comparison.
func ArrayEqualFunc[T any](a, b Array[T], eq func(x, y *T) bool) bool {
	if a.box == b.box {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i := range a.box.elems {
		if !eq(&a.box.elems[i], &b.box.elems[i]) {
			return false
		}
	}
	return true
}
