package stream

import "github.com/wippyai/valuestore/errors"

// Stream errors. Implementations return these, or errors that match them
// with errors.Is.
var (
	ErrArrayLengthMismatch = &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindArrayLengthMismatch}
	ErrKeyNotExists        = &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindKeyNotExists}
	ErrInvalidType         = &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindInvalidType}
)

// Writer receives a value as a sequence of structural events.
type Writer interface {
	BeginObject() error
	WriteKey(key string) error
	EndObject() error

	BeginArray(length int) error
	EndArray() error

	WriteString(v string) error
	WriteBool(v bool) error
	WriteInt8(v int8) error
	WriteUint8(v uint8) error
	WriteInt16(v int16) error
	WriteUint16(v uint16) error
	WriteInt32(v int32) error
	WriteUint32(v uint32) error
	WriteInt64(v int64) error
	WriteUint64(v uint64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteEnum(name string) error
	WriteVariant(name string) error
}

// Reader produces a value on demand. ReadKey positions the reader at the
// value of key inside the current object. ReadVariant returns the name of
// the alternative at the current position: either a variant name value, or
// the single key of the current object, which it then positions at.
type Reader interface {
	BeginObject() error
	ReadKey(key string) error
	EndObject() error

	BeginArray() error
	ArrayLength() (int, error)
	EndArray() error

	ReadString() (string, error)
	ReadBool() (bool, error)
	ReadInt8() (int8, error)
	ReadUint8() (uint8, error)
	ReadInt16() (int16, error)
	ReadUint16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUint32() (uint32, error)
	ReadInt64() (int64, error)
	ReadUint64() (uint64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadEnum() (string, error)
	ReadVariant() (string, error)
}

// VariantValueKey holds the payload of a variant encoded with an external
// discriminant field.
const VariantValueKey = "value"
