package rc

import "sync/atomic"

// Releaser is implemented by payloads that hold references of their own.
// Release runs exactly once, when the last handle to the payload is dropped.
type Releaser interface {
	Release()
}

// Cloner is implemented by element types that must be copy-constructed
// (for example nested handles) when they are stored in an Array.
type Cloner[T any] interface {
	Clone() T
}

type box[T any] struct {
	value T
	refs  atomic.Int64
}

// Rc is a reference counted handle to an immutable value.
// The count lives in the same allocation as the value.
//
// Counting is thread-safe; the value itself is not synchronized and must not
// be mutated once shared.
type Rc[T any] struct {
	box *box[T]
}

// New wraps v in a fresh allocation with a count of one.
func New[T any](v T) Rc[T] {
	b := &box[T]{value: v}
	b.refs.Store(1)
	return Rc[T]{box: b}
}

// Valid reports whether the handle references a live value.
func (r Rc[T]) Valid() bool {
	return r.box != nil
}

// Get returns the shared value. The pointer is read-only by contract.
func (r Rc[T]) Get() *T {
	if r.box == nil {
		return nil
	}
	return &r.box.value
}

// Count returns the current strong count, 0 for an empty handle.
func (r Rc[T]) Count() int64 {
	if r.box == nil {
		return 0
	}
	return r.box.refs.Load()
}

// Clone increments the count and returns a new handle to the same value.
func (r Rc[T]) Clone() Rc[T] {
	if r.box == nil {
		return r
	}
	r.box.refs.Add(1)
	return r
}

// Take moves the handle out of r, leaving r empty. The count is unchanged.
func (r *Rc[T]) Take() Rc[T] {
	out := *r
	r.box = nil
	return out
}

// Release decrements the count and clears r. The value is destroyed when the
// count reaches zero.
func (r *Rc[T]) Release() {
	b := r.box
	if b == nil {
		return
	}
	r.box = nil
	switch n := b.refs.Add(-1); {
	case n == 0:
		if rel, ok := any(&b.value).(Releaser); ok {
			rel.Release()
		}
		var zero T
		b.value = zero
	case n < 0:
		panic("rc: release of a dropped value")
	}
}

// Assign makes r share o's value, releasing r's previous value. Nothing
// happens when both already reference the same allocation.
func (r *Rc[T]) Assign(o Rc[T]) {
	if r.box == o.box {
		return
	}
	next := o.Clone()
	r.Release()
	*r = next
}

// Same reports whether a and b reference the same allocation.
func Same[T any](a, b Rc[T]) bool {
	return a.box == b.box
}

// Equal compares the values behind a and b, short-circuiting on identity.
func Equal[T comparable](a, b Rc[T]) bool {
	if a.box == b.box {
		return true
	}
	if a.box == nil || b.box == nil {
		return false
	}
	return a.box.value == b.box.value
}

// EqualFunc is Equal with a caller-supplied content comparison.
func EqualFunc[T any](a, b Rc[T], eq func(x, y *T) bool) bool {
	if a.box == b.box {
		return true
	}
	if a.box == nil || b.box == nil {
		return false
	}
	return eq(&a.box.value, &b.box.value)
}
