// Package rc provides intrusive, atomically reference counted containers.
//
// Rc holds a single value and Array a fixed-length array; both keep the
// strong count next to the payload so a handle is one pointer wide.
//
// Go has no destructors, so ownership is explicit:
//
//	a := rc.New(body)     // count 1
//	b := a.Clone()        // count 2
//	c := b.Take()         // move: b is empty, count still 2
//	a.Release()           // count 1
//	c.Release()           // count 0, body.Release() runs if implemented
//
// Payloads are immutable once shared. Equal/ArrayEqual compare content with
// an identity fast path; Same/ArraySame compare identity only.
package rc
