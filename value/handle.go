package value

import "github.com/wippyai/valuestore/layout"

// Handle is an owning reference to a value block.
//
// Copying the struct does not add a reference; use Clone. The block is
// destroyed when the last handle is released.
type Handle struct {
	b *block
}

// New allocates a default-initialized value of l with DefaultOptions.
func New(l layout.Layout) Handle {
	return NewWithOptions(l, DefaultOptions())
}

// NewWithOptions allocates a default-initialized value of l. The layout is
// retained for the lifetime of the value.
func NewWithOptions(l layout.Layout, opts Options) Handle {
	if l == nil {
		panic("value: nil layout")
	}
	return Handle{b: newBlock(l, opts)}
}

// Valid reports whether h references a live block.
func (h Handle) Valid() bool {
	return h.b != nil
}

// Clone adds a reference and returns a second handle.
func (h Handle) Clone() Handle {
	if h.b != nil {
		h.b.refs.Add(1)
	}
	return h
}

// Take moves the handle out of h without touching the count.
func (h *Handle) Take() Handle {
	out := *h
	h.b = nil
	return out
}

// Release drops the reference held by h. The last release takes the write
// lock, releases nested strings and array storage, releases the layout and
// bumps the generation so every outstanding Reference becomes stale.
func (h *Handle) Release() {
	b := h.b
	if b == nil {
		return
	}
	h.b = nil
	switch n := b.refs.Add(-1); {
	case n == 0:
		b.mu.Lock()
		b.destroy()
		b.mu.Unlock()
	case n < 0:
		panic("value: release of a destroyed value")
	}
}

// Count returns the number of handles, 0 for an empty handle.
func (h Handle) Count() int64 {
	if h.b == nil {
		return 0
	}
	return h.b.refs.Load()
}

// Layout returns the value's layout, borrowed from the handle.
func (h Handle) Layout() layout.Layout {
	if h.b == nil {
		return nil
	}
	return h.b.layout
}

// Generation returns the block's current generation.
func (h Handle) Generation() uint64 {
	if h.b == nil {
		return 0
	}
	return h.b.generation()
}

// Root returns a reference to the whole value at the current generation.
func (h Handle) Root() Reference {
	if h.b == nil {
		return Reference{}
	}
	return Reference{b: h.b, layout: h.b.layout, gen: h.b.generation()}
}
