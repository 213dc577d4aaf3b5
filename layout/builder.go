package layout

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout/internal/abi"
	"github.com/wippyai/valuestore/rc"
)

// Builder constructs composite layouts whose names live in one interner.
//
// Builders validate their input and return the zero layout with a non-nil
// error on failure. They borrow the layouts they are given and retain them
// on success.
type Builder struct {
	in *intern.Interner
}

// NewBuilder returns a builder interning names into in, or into
// intern.Default() when in is nil.
func NewBuilder(in *intern.Interner) *Builder {
	if in == nil {
		in = intern.Default()
	}
	return &Builder{in: in}
}

var defaultBuilder = sync.OnceValue(func() *Builder { return NewBuilder(nil) })

// Interner returns the table names are interned into.
func (b *Builder) Interner() *intern.Interner {
	return b.in
}

// Object places fields in the given order. It fails if two fields share a
// name.
func (b *Builder) Object(fields ...Field) (Object, error) {
	if err := validate("object", fields); err != nil {
		return Object{}, err
	}
	staged, size, align, err := place(b.in, "object", fields)
	if err != nil {
		return Object{}, rejected("object", err)
	}
	return Object{body: rc.New(objectBody{
		members: newMembers(b.in, staged, true),
		size:    size,
		align:   align,
	})}, nil
}

// Tuple places unnamed fields like Object. It panics on a nil field or when
// the size overflows uint32.
func (b *Builder) Tuple(fields ...Layout) Tuple {
	named := make([]Field, len(fields))
	for i, l := range fields {
		if l == nil {
			panic(fmt.Sprintf("layout: tuple field %d is nil", i))
		}
		named[i] = Field{Layout: l}
	}
	staged, size, align, err := place(b.in, "tuple", named)
	if err != nil {
		panic(err)
	}
	return Tuple{body: rc.New(tupleBody{
		members: newMembers(b.in, staged, false),
		size:    size,
		align:   align,
	})}
}

// Variant builds a tagged union over alts. It fails when alts is empty or two
// alternatives share a name.
func (b *Builder) Variant(alts ...Field) (Variant, error) {
	return b.TaggedVariant("", alts...)
}

// TaggedVariant is Variant with an external discriminant field name that
// stream walkers use to encode the active alternative's name.
func (b *Builder) TaggedVariant(discriminant string, alts ...Field) (Variant, error) {
	if len(alts) == 0 {
		return Variant{}, rejected("variant", errors.Unsupported(errors.PhaseLayout, "variant without alternatives"))
	}
	if err := validate("variant", alts); err != nil {
		return Variant{}, err
	}

	tag := abi.DiscriminantSize(uint64(len(alts)))
	payloadAlign := tag
	payloadSize := uint32(0)
	for _, a := range alts {
		size, align := dispatch(a.Layout)
		payloadAlign = max(payloadAlign, align)
		payloadSize = max(payloadSize, size)
	}
	payloadOffset := abi.AlignTo(tag, payloadAlign)
	end, ok := abi.SafeAddU32(payloadOffset, payloadSize)
	if !ok {
		return Variant{}, rejected("variant", errors.Overflow(errors.PhaseLayout, []string{"variant"}, payloadSize, "uint32"))
	}
	size, ok := abi.SafeAlignTo(end, payloadAlign)
	if !ok {
		return Variant{}, rejected("variant", errors.Overflow(errors.PhaseLayout, []string{"variant"}, end, "uint32"))
	}

	staged := make([]entry, len(alts))
	for i, a := range alts {
		staged[i] = entry{layout: a.Layout, name: b.in.Intern(a.Name)}
	}

	return Variant{body: rc.New(variantBody{
		members:       newMembers(b.in, staged, true),
		disc:          b.in.Intern(discriminant),
		tagSize:       tag,
		payloadOffset: payloadOffset,
		size:          size,
		align:         payloadAlign,
	})}, nil
}

// Enum builds an enumeration backed by Uint32.
func (b *Builder) Enum(names ...string) (Enum, error) {
	return b.EnumBacked(Uint32, names...)
}

// EnumBacked builds an enumeration stored as backing. It fails on duplicate
// names, an empty name list, a bool backing or more names than backing can
// index.
func (b *Builder) EnumBacked(backing Integral, names ...string) (Enum, error) {
	switch {
	case backing == Bool:
		return Enum{}, rejected("enum", errors.Unsupported(errors.PhaseLayout, "enum backed by bool"))
	case len(names) == 0:
		return Enum{}, rejected("enum", errors.Unsupported(errors.PhaseLayout, "enum without names"))
	case uint64(len(names)-1) > backing.Max():
		return Enum{}, rejected("enum", errors.Overflow(errors.PhaseLayout, []string{"enum"}, len(names), backing.String()))
	}
	var errs error
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			errs = multierr.Append(errs, errors.DuplicateName(errors.PhaseLayout, []string{"enum"}, n))
			continue
		}
		seen[n] = struct{}{}
	}
	if errs != nil {
		return Enum{}, rejected("enum", errs)
	}

	staged := make([]intern.String, len(names))
	for i, n := range names {
		staged[i] = b.in.Intern(n)
	}
	body := enumBody{
		in:      b.in,
		index:   make(map[intern.Handle]int, len(names)),
		names:   rc.ArrayOf(staged...),
		backing: backing,
	}
	for i := range staged {
		body.index[staged[i].Handle()] = i
		staged[i].Release()
	}
	return Enum{body: rc.New(body)}, nil
}

// validate reports every duplicate name and nil layout in fields.
func validate(what string, fields []Field) error {
	var errs error
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Layout == nil {
			errs = multierr.Append(errs, errors.InvalidData(errors.PhaseLayout, []string{what, f.Name}, "nil layout"))
		}
		if _, dup := seen[f.Name]; dup {
			errs = multierr.Append(errs, errors.DuplicateName(errors.PhaseLayout, []string{what}, f.Name))
			continue
		}
		seen[f.Name] = struct{}{}
	}
	if errs != nil {
		return rejected(what, errs)
	}
	return nil
}

func rejected(what string, err error) error {
	Logger().Debug("layout rejected",
		zap.String("kind", what),
		zap.Int("errors", len(multierr.Errors(err))),
		zap.Error(err))
	return err
}

// Package level builders intern names into intern.Default().

// ObjectOf is Builder.Object on the default interner.
func ObjectOf(fields ...Field) (Object, error) {
	return defaultBuilder().Object(fields...)
}

// TupleOf is Builder.Tuple on the default interner.
func TupleOf(fields ...Layout) Tuple {
	return defaultBuilder().Tuple(fields...)
}

// VariantOf is Builder.Variant on the default interner.
func VariantOf(alts ...Field) (Variant, error) {
	return defaultBuilder().Variant(alts...)
}

// TaggedVariantOf is Builder.TaggedVariant on the default interner.
func TaggedVariantOf(discriminant string, alts ...Field) (Variant, error) {
	return defaultBuilder().TaggedVariant(discriminant, alts...)
}

// EnumOf is Builder.Enum on the default interner.
func EnumOf(names ...string) (Enum, error) {
	return defaultBuilder().Enum(names...)
}

// EnumBackedOf is Builder.EnumBacked on the default interner.
func EnumBackedOf(backing Integral, names ...string) (Enum, error) {
	return defaultBuilder().EnumBacked(backing, names...)
}
