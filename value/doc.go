// Package value stores reference counted, lockable values shaped by a
// layout.Layout.
//
// A value is one block: the payload bytes of its layout plus a heap of
// element buffers for its arrays. Locations inside it are addressed by
// Reference, and read or written through a View or ViewMut that holds the
// block's lock:
//
//	h := value.New(obj)
//	defer h.Release()
//
//	m := h.Root().ViewMut()
//	if f, ok := m.Field("integral"); ok {
//		f.SetInt8(5)
//	}
//	m.Close()
//
//	v := h.Root().View()
//	defer v.Close()
//	n, _ := v.Resolve("integral")
//	x, _ := n.Int8()
//
// # Staleness
//
// Each block carries a generation. Pushing to an array, switching a variant
// and the final release bump it, after which every Reference captured
// earlier reports IsValid() == false and its views return absent results.
// The ViewMut that made the change, and the views it was navigated from,
// move to the new generation.
//
// # Locking
//
// Any number of Views may be open on a value at once; a ViewMut excludes
// all others. Do not navigate a Reference, open a second view, or release
// the last Handle while holding a view of the same value on the same
// goroutine.
package value
