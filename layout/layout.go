package layout

import (
	"fmt"
	"math"

	"github.com/wippyai/valuestore/intern"
)

// Layout describes the size, alignment and structure of a value shape.
//
// The set of implementations is closed: Integral, Floating, Primitive,
// Array, Enum, Object, Tuple and Variant.
type Layout interface {
	Kind() Kind
	String() string
	sealed()
}

// Integral is bool or a fixed-width integer.
type Integral Kind

const (
	Bool   = Integral(KindBool)
	Int8   = Integral(KindInt8)
	Uint8  = Integral(KindUint8)
	Int16  = Integral(KindInt16)
	Uint16 = Integral(KindUint16)
	Int32  = Integral(KindInt32)
	Uint32 = Integral(KindUint32)
	Int64  = Integral(KindInt64)
	Uint64 = Integral(KindUint64)
)

func (i Integral) Kind() Kind     { return Kind(i) }
func (i Integral) String() string { return shortNames[i] }
func (Integral) sealed()          {}

// Max returns the largest non-negative value i can hold.
func (i Integral) Max() uint64 {
	bits := 8 * SizeOf(i)
	switch {
	case i == Bool:
		return 1
	case i.Kind().IsSigned():
		return 1<<(bits-1) - 1
	case bits == 64:
		return math.MaxUint64
	}
	return 1<<bits - 1
}

// Floating is float32 or float64.
type Floating Kind

const (
	Float32 = Floating(KindFloat32)
	Float64 = Floating(KindFloat64)
)

func (f Floating) Kind() Kind     { return Kind(f) }
func (f Floating) String() string { return shortNames[f] }
func (Floating) sealed()          {}

// Primitive is the string or unit marker.
type Primitive Kind

const (
	String = Primitive(KindString)
	Unit   = Primitive(KindUnit)
)

func (p Primitive) Kind() Kind     { return Kind(p) }
func (p Primitive) String() string { return shortNames[p] }
func (Primitive) sealed()          {}

// Array record: {data, length, capacity} as three little-endian uint64 words.
const (
	ArrayRecordSize  = 24
	ArrayRecordAlign = 8

	ArrayDataOffset = 0
	ArrayLenOffset  = 8
	ArrayCapOffset  = 16
)

// SizeOf returns the byte size of l.
func SizeOf(l Layout) uint32 {
	size, _ := dispatch(l)
	return size
}

// AlignOf returns the byte alignment of l, always a power of two.
func AlignOf(l Layout) uint32 {
	_, align := dispatch(l)
	return align
}

func dispatch(l Layout) (size, align uint32) {
	switch x := l.(type) {
	case Integral:
		s := scalarSizes[x]
		return s, s
	case Floating:
		s := scalarSizes[x]
		return s, s
	case Primitive:
		if x == String {
			return intern.HandleSize, intern.HandleSize
		}
		return 0, 1
	case Array:
		return ArrayRecordSize, ArrayRecordAlign
	case Enum:
		s := scalarSizes[x.Backing()]
		return s, s
	case Object:
		return x.Size(), x.Align()
	case Tuple:
		return x.Size(), x.Align()
	case Variant:
		return x.Size(), x.Align()
	default:
		panic(fmt.Sprintf("layout: unknown layout %T", l))
	}
}

// Initialize writes the default value of l into buf[:SizeOf(l)]: zero for
// numbers and enums, the empty string handle, an empty array record, every
// field of an object or tuple, and alternative 0 of a variant.
func Initialize(l Layout, buf []byte) {
	size := SizeOf(l)
	if uint32(len(buf)) < size {
		panic(fmt.Sprintf("layout: initialize %s: buffer of %d bytes, need %d", l, len(buf), size))
	}
	switch x := l.(type) {
	case Integral, Floating, Enum, Array:
		clear(buf[:size])
	case Primitive:
		if x == String {
			intern.PutHandle(buf, intern.Empty)
		}
	case Object:
		clear(buf[:size])
		for m := range x.Fields() {
			Initialize(m.Layout, buf[m.Offset:])
		}
	case Tuple:
		clear(buf[:size])
		for m := range x.Fields() {
			Initialize(m.Layout, buf[m.Offset:])
		}
	case Variant:
		clear(buf[:size])
		x.PutTag(buf, 0)
		if x.Len() > 0 {
			Initialize(x.Alternative(0).Layout, buf[x.PayloadOffset():])
		}
	default:
		panic(fmt.Sprintf("layout: unknown layout %T", l))
	}
}

// Retain returns a new owning handle to l. Composite layouts are shared by
// reference count; an Array deep-clones its element slot.
func Retain(l Layout) Layout {
	switch x := l.(type) {
	case Integral, Floating, Primitive:
		return l
	case Array:
		return x.clone()
	case Enum:
		return Enum{body: x.body.Clone()}
	case Object:
		return Object{body: x.body.Clone()}
	case Tuple:
		return Tuple{body: x.body.Clone()}
	case Variant:
		return Variant{body: x.body.Clone()}
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("layout: unknown layout %T", l))
	}
}

// Release drops the handle l. Releasing the last holder of a composite
// releases its interned names and nested layouts.
func Release(l Layout) {
	switch x := l.(type) {
	case Integral, Floating, Primitive, nil:
	case Array:
		x.release()
	case Enum:
		x.body.Release()
	case Object:
		x.body.Release()
	case Tuple:
		x.body.Release()
	case Variant:
		x.body.Release()
	default:
		panic(fmt.Sprintf("layout: unknown layout %T", l))
	}
}

// Equal reports structural equality. Names compare by interned handle.
func Equal(a, b Layout) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Integral, Floating, Primitive:
		return true
	case Array:
		return Equal(x.Elem(), b.(Array).Elem())
	case Enum:
		return x.equal(b.(Enum))
	case Object:
		return x.equal(b.(Object))
	case Tuple:
		return x.equal(b.(Tuple))
	case Variant:
		return x.equal(b.(Variant))
	default:
		panic(fmt.Sprintf("layout: unknown layout %T", a))
	}
}

// Of returns the scalar layout for k. It panics for kinds that need
// parameters.
func Of(k Kind) Layout {
	switch {
	case k.IsIntegral():
		return Integral(k)
	case k.IsFloating():
		return Floating(k)
	case k == KindString, k == KindUnit:
		return Primitive(k)
	}
	panic(fmt.Sprintf("layout: kind %s is not a scalar", k))
}
