// Package layout computes byte-exact memory layouts for a closed set of
// value shapes.
//
// # Shapes
//
//	Integral   bool, int8 ... uint64       size = align = 1, 2, 4 or 8
//	Floating   float32, float64            4/4, 8/8
//	Primitive  String                      interned handle, 4/4
//	           Unit                        0/1
//	Array      array<T>                    {data, length, capacity} record, 24/8
//	Enum       enum<backing>{names}        backing integral
//	Object     object{name: T, ...}        fields padded in order
//	Tuple      tuple<T, ...>               unnamed fields padded in order
//	Variant    variant{name: T, ...}       tag, then one payload region
//
// Composite layouts are immutable after construction and shared through a
// reference count. Retain and Release transfer ownership explicitly:
//
//	b := layout.NewBuilder(in)
//	point, err := b.Object(layout.Named("x", layout.Float64), layout.Named("y", layout.Float64))
//	if err != nil {
//		// duplicate field names
//	}
//	defer layout.Release(point)
//
// SizeOf, AlignOf and Initialize share one exhaustive dispatch over the
// shape kinds; an unknown implementation panics.
//
// # Variants
//
// The tag is the smallest of 1, 2, 4 or 8 bytes able to index every
// alternative. The payload starts at the tag width rounded up to the larger
// of the tag width and the widest alternative alignment.
package layout
