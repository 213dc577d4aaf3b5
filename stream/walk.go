package stream

import (
	stderrors "errors"
	"strconv"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/layout"
	"github.com/wippyai/valuestore/value"
)

// Encode writes the value under v to w.
func Encode(v *value.View, w Writer) error {
	return encode(v, w, nil)
}

// Decode reads a value of m's layout from r into m. Arrays are filled by
// index and then by push; variants switch to the alternative read.
func Decode(r Reader, m *value.ViewMut) error {
	return decode(r, m, nil)
}

// at attaches path to a stream error that does not carry one yet.
func at(path []string, err error) error {
	if err == nil {
		return nil
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		if len(e.Path) > 0 {
			return err
		}
		return &errors.Error{Phase: e.Phase, Kind: e.Kind, Path: append([]string(nil), path...), Detail: e.Detail, Cause: err}
	}
	return &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindInvalidData, Path: append([]string(nil), path...), Cause: err}
}

func stale(path []string, ref value.Reference) error {
	return errors.StaleReference(errors.PhaseStream, append([]string(nil), path...), ref.Generation(), ref.Current())
}

func index(path []string, i int) []string {
	return append(path[:len(path):len(path)], "["+strconv.Itoa(i)+"]")
}

func key(path []string, k string) []string {
	return append(path[:len(path):len(path)], k)
}

func encode(v *value.View, w Writer, path []string) error {
	if !v.Valid() {
		return stale(path, v.Reference())
	}
	switch l := v.Layout().(type) {
	case layout.Integral, layout.Floating:
		return at(path, encodeScalar(v, w))
	case layout.Primitive:
		if l == layout.String {
			s, _ := v.String()
			return at(path, w.WriteString(s))
		}
		if err := w.BeginObject(); err != nil {
			return at(path, err)
		}
		return at(path, w.EndObject())
	case layout.Enum:
		name, ok := v.Enum()
		if !ok {
			return errors.InvalidEnum(errors.PhaseStream, path, "stored index", l.String())
		}
		return at(path, w.WriteEnum(name))
	case layout.Object:
		if err := w.BeginObject(); err != nil {
			return at(path, err)
		}
		for f := range l.Fields() {
			if err := w.WriteKey(f.Name); err != nil {
				return at(key(path, f.Name), err)
			}
			child, _ := v.Field(f.Name)
			if err := encode(child, w, key(path, f.Name)); err != nil {
				return err
			}
		}
		return at(path, w.EndObject())
	case layout.Tuple:
		if err := w.BeginArray(l.Len()); err != nil {
			return at(path, err)
		}
		for i := range l.Len() {
			child, _ := v.Item(i)
			if err := encode(child, w, index(path, i)); err != nil {
				return err
			}
		}
		return at(path, w.EndArray())
	case layout.Array:
		n, _ := v.Len()
		if err := w.BeginArray(n); err != nil {
			return at(path, err)
		}
		for i := range n {
			child, _ := v.Index(i)
			if err := encode(child, w, index(path, i)); err != nil {
				return err
			}
		}
		return at(path, w.EndArray())
	case layout.Variant:
		name, ok := v.VariantName()
		if !ok {
			return errors.InvalidDiscriminant(errors.PhaseStream, path, 0, uint64(l.Len()))
		}
		payload, _ := v.Variant()
		if err := w.BeginObject(); err != nil {
			return at(path, err)
		}
		payloadKey := name
		if d, tagged := l.Discriminant(); tagged {
			if err := w.WriteKey(d); err != nil {
				return at(key(path, d), err)
			}
			if err := w.WriteVariant(name); err != nil {
				return at(key(path, d), err)
			}
			payloadKey = VariantValueKey
		}
		if err := w.WriteKey(payloadKey); err != nil {
			return at(key(path, payloadKey), err)
		}
		if err := encode(payload, w, key(path, payloadKey)); err != nil {
			return err
		}
		return at(path, w.EndObject())
	}
	return errors.Unsupported(errors.PhaseStream, "layout "+v.Layout().String())
}

func encodeScalar(v *value.View, w Writer) error {
	switch v.Kind() {
	case layout.KindBool:
		x, _ := v.Bool()
		return w.WriteBool(x)
	case layout.KindInt8:
		x, _ := v.Int8()
		return w.WriteInt8(x)
	case layout.KindUint8:
		x, _ := v.Uint8()
		return w.WriteUint8(x)
	case layout.KindInt16:
		x, _ := v.Int16()
		return w.WriteInt16(x)
	case layout.KindUint16:
		x, _ := v.Uint16()
		return w.WriteUint16(x)
	case layout.KindInt32:
		x, _ := v.Int32()
		return w.WriteInt32(x)
	case layout.KindUint32:
		x, _ := v.Uint32()
		return w.WriteUint32(x)
	case layout.KindInt64:
		x, _ := v.Int64()
		return w.WriteInt64(x)
	case layout.KindUint64:
		x, _ := v.Uint64()
		return w.WriteUint64(x)
	case layout.KindFloat32:
		x, _ := v.Float32()
		return w.WriteFloat32(x)
	default:
		x, _ := v.Float64()
		return w.WriteFloat64(x)
	}
}

func decode(r Reader, m *value.ViewMut, path []string) error {
	if !m.Valid() {
		return stale(path, m.Reference())
	}
	switch l := m.Layout().(type) {
	case layout.Integral, layout.Floating:
		return at(path, decodeScalar(r, m))
	case layout.Primitive:
		if l == layout.String {
			s, err := r.ReadString()
			if err != nil {
				return at(path, err)
			}
			m.SetString(s)
			return nil
		}
		if err := r.BeginObject(); err != nil {
			return at(path, err)
		}
		return at(path, r.EndObject())
	case layout.Enum:
		name, err := r.ReadEnum()
		if err != nil {
			return at(path, err)
		}
		if !m.SetEnum(name) {
			return at(path, errors.New(errors.PhaseStream, errors.KindInvalidType).
				Layout(l.String()).Detail("unknown enum value %q", name).Build())
		}
		return nil
	case layout.Object:
		if err := r.BeginObject(); err != nil {
			return at(path, err)
		}
		for f := range l.Fields() {
			if err := r.ReadKey(f.Name); err != nil {
				return at(key(path, f.Name), err)
			}
			child, _ := m.Field(f.Name)
			if err := decode(r, child, key(path, f.Name)); err != nil {
				return err
			}
		}
		return at(path, r.EndObject())
	case layout.Tuple:
		if err := r.BeginArray(); err != nil {
			return at(path, err)
		}
		n, err := r.ArrayLength()
		if err != nil {
			return at(path, err)
		}
		if n != l.Len() {
			return at(path, errors.New(errors.PhaseStream, errors.KindArrayLengthMismatch).
				Detail("tuple of %d read from array of %d", l.Len(), n).Build())
		}
		for i := range n {
			child, _ := m.Item(i)
			if err := decode(r, child, index(path, i)); err != nil {
				return err
			}
		}
		return at(path, r.EndArray())
	case layout.Array:
		if err := r.BeginArray(); err != nil {
			return at(path, err)
		}
		n, err := r.ArrayLength()
		if err != nil {
			return at(path, err)
		}
		have, _ := m.Len()
		if have > n {
			return at(path, errors.New(errors.PhaseStream, errors.KindArrayLengthMismatch).
				Detail("array holds %d elements, stream %d", have, n).Build())
		}
		for i := range n {
			var (
				child *value.ViewMut
				ok    bool
			)
			if i < have {
				child, ok = m.Index(i)
			} else {
				child, ok = m.Push()
			}
			if !ok {
				return stale(index(path, i), m.Reference())
			}
			if err := decode(r, child, index(path, i)); err != nil {
				return err
			}
		}
		return at(path, r.EndArray())
	case layout.Variant:
		if err := r.BeginObject(); err != nil {
			return at(path, err)
		}
		d, tagged := l.Discriminant()
		if tagged {
			if err := r.ReadKey(d); err != nil {
				return at(key(path, d), err)
			}
		}
		name, err := r.ReadVariant()
		if err != nil {
			return at(path, err)
		}
		payload, ok := m.SetVariant(name)
		if !ok {
			return at(path, errors.New(errors.PhaseStream, errors.KindInvalidType).
				Layout(l.String()).Detail("unknown alternative %q", name).Build())
		}
		payloadKey := name
		if tagged {
			payloadKey = VariantValueKey
			if err := r.ReadKey(VariantValueKey); err != nil {
				return at(key(path, VariantValueKey), err)
			}
		}
		if err := decode(r, payload, key(path, payloadKey)); err != nil {
			return err
		}
		return at(path, r.EndObject())
	}
	return errors.Unsupported(errors.PhaseStream, "layout "+m.Layout().String())
}

func decodeScalar(r Reader, m *value.ViewMut) error {
	switch m.Kind() {
	case layout.KindBool:
		x, err := r.ReadBool()
		if err == nil {
			m.SetBool(x)
		}
		return err
	case layout.KindInt8:
		x, err := r.ReadInt8()
		if err == nil {
			m.SetInt8(x)
		}
		return err
	case layout.KindUint8:
		x, err := r.ReadUint8()
		if err == nil {
			m.SetUint8(x)
		}
		return err
	case layout.KindInt16:
		x, err := r.ReadInt16()
		if err == nil {
			m.SetInt16(x)
		}
		return err
	case layout.KindUint16:
		x, err := r.ReadUint16()
		if err == nil {
			m.SetUint16(x)
		}
		return err
	case layout.KindInt32:
		x, err := r.ReadInt32()
		if err == nil {
			m.SetInt32(x)
		}
		return err
	case layout.KindUint32:
		x, err := r.ReadUint32()
		if err == nil {
			m.SetUint32(x)
		}
		return err
	case layout.KindInt64:
		x, err := r.ReadInt64()
		if err == nil {
			m.SetInt64(x)
		}
		return err
	case layout.KindUint64:
		x, err := r.ReadUint64()
		if err == nil {
			m.SetUint64(x)
		}
		return err
	case layout.KindFloat32:
		x, err := r.ReadFloat32()
		if err == nil {
			m.SetFloat32(x)
		}
		return err
	default:
		x, err := r.ReadFloat64()
		if err == nil {
			m.SetFloat64(x)
		}
		return err
	}
}

// ToTree encodes v into a new Node tree.
func ToTree(v *value.View) (*Node, error) {
	w := NewTreeWriter()
	if err := Encode(v, w); err != nil {
		return nil, err
	}
	return w.Root(), nil
}

// FromTree decodes n into m.
func FromTree(n *Node, m *value.ViewMut) error {
	return Decode(NewTreeReader(n), m)
}
