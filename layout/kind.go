package layout

// Kind identifies one of the closed set of layout shapes.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindUnit
	KindArray
	KindEnum
	KindObject
	KindTuple
	KindVariant

	numKinds
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindUnit:    "unit",
	KindArray:   "array",
	KindEnum:    "enum",
	KindObject:  "object",
	KindTuple:   "tuple",
	KindVariant: "variant",
}

// short names used when rendering layouts
var shortNames = [...]string{
	KindBool:    "bool",
	KindInt8:    "i8",
	KindUint8:   "u8",
	KindInt16:   "i16",
	KindUint16:  "u16",
	KindInt32:   "i32",
	KindUint32:  "u32",
	KindInt64:   "i64",
	KindUint64:  "u64",
	KindFloat32: "f32",
	KindFloat64: "f64",
	KindString:  "string",
	KindUnit:    "unit",
}

// scalarSizes holds size == align for the fixed-width kinds.
var scalarSizes = [...]uint32{
	KindBool:    1,
	KindInt8:    1,
	KindUint8:   1,
	KindInt16:   2,
	KindUint16:  2,
	KindInt32:   4,
	KindUint32:  4,
	KindInt64:   8,
	KindUint64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
}

// Adding a kind without extending the tables above fails to compile.
var (
	_ = [1]struct{}{}[len(kindNames)-int(numKinds)]
	_ = [1]struct{}{}[len(shortNames)-int(KindUnit)-1]
	_ = [1]struct{}{}[len(scalarSizes)-int(KindFloat64)-1]
)

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "invalid"
}

// IsIntegral reports whether k is bool or a fixed-width integer.
func (k Kind) IsIntegral() bool {
	return k <= KindUint64
}

// IsFloating reports whether k is float32 or float64.
func (k Kind) IsFloating() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsSigned reports whether k is a signed integer.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsComposite reports whether layouts of kind k are reference counted.
func (k Kind) IsComposite() bool {
	switch k {
	case KindEnum, KindObject, KindTuple, KindVariant:
		return true
	}
	return false
}
