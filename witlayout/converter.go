package witlayout

import (
	"math"
	"strings"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/layout"
	"go.bytecodealliance.org/wit"
)

// Option and result alternative names.
const (
	OptionNone = "none"
	OptionSome = "some"
	ResultOK   = "ok"
	ResultErr  = "err"
)

// Converter maps WIT types to layouts, caching composite results.
type Converter struct {
	b     *layout.Builder
	cache map[*wit.TypeDef]layout.Layout
}

// NewConverter returns a converter that builds with b. A nil b uses the
// default interner.
func NewConverter(b *layout.Builder) *Converter {
	if b == nil {
		b = layout.NewBuilder(nil)
	}
	return &Converter{
		b:     b,
		cache: make(map[*wit.TypeDef]layout.Layout),
	}
}

// Convert returns the layout of t. The result is borrowed from the converter.
func (c *Converter) Convert(t wit.Type) (layout.Layout, error) {
	return c.convert(t, nil)
}

// Len returns the number of cached type definitions.
func (c *Converter) Len() int {
	return len(c.cache)
}

// Release drops every cached layout.
func (c *Converter) Release() {
	for td, l := range c.cache {
		layout.Release(l)
		delete(c.cache, td)
	}
}

func (c *Converter) convert(t wit.Type, path []string) (layout.Layout, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return layout.Bool, nil
	case wit.U8:
		return layout.Uint8, nil
	case wit.S8:
		return layout.Int8, nil
	case wit.U16:
		return layout.Uint16, nil
	case wit.S16:
		return layout.Int16, nil
	case wit.U32, wit.Char:
		return layout.Uint32, nil
	case wit.S32:
		return layout.Int32, nil
	case wit.U64:
		return layout.Uint64, nil
	case wit.S64:
		return layout.Int64, nil
	case wit.F32:
		return layout.Float32, nil
	case wit.F64:
		return layout.Float64, nil
	case wit.String:
		return layout.String, nil
	case *wit.TypeDef:
		return c.convertTypeDef(typ, path)
	case nil:
		return layout.Unit, nil
	default:
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported WIT type: %T", t).
			Build()
	}
}

func (c *Converter) convertTypeDef(t *wit.TypeDef, path []string) (layout.Layout, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}
	if t.Name != nil {
		path = append(path[:len(path):len(path)], *t.Name)
	}

	var (
		l   layout.Layout
		err error
	)
	switch kind := t.Kind.(type) {
	case *wit.Record:
		l, err = c.convertRecord(kind, path)
	case *wit.Tuple:
		l, err = c.convertTuple(kind, path)
	case *wit.Variant:
		l, err = c.convertVariant(kind, path)
	case *wit.Enum:
		l, err = c.convertEnum(kind)
	case *wit.Flags:
		l, err = c.convertFlags(kind)
	case *wit.Option:
		l, err = c.convertOption(kind, path)
	case *wit.Result:
		l, err = c.convertResult(kind, path)
	case *wit.List:
		l, err = c.convertList(kind, path)
	case *wit.Own, *wit.Borrow:
		l = layout.Uint32
	case wit.Type:
		// alias: the cached entry holds its own reference
		l, err = c.convert(kind, path)
		if err == nil {
			l = layout.Retain(l)
		}
	default:
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported TypeDef kind: %T", kind).
			Build()
	}
	if err != nil {
		return nil, err
	}
	c.cache[t] = l
	return l, nil
}

func (c *Converter) convertRecord(r *wit.Record, path []string) (layout.Layout, error) {
	fields := make([]layout.Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		fl, err := c.convert(f.Type, append(path[:len(path):len(path)], f.Name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, layout.Named(f.Name, fl))
	}
	return c.object(fields, path)
}

func (c *Converter) convertTuple(t *wit.Tuple, path []string) (layout.Layout, error) {
	items := make([]layout.Layout, 0, len(t.Types))
	for _, typ := range t.Types {
		l, err := c.convert(typ, path)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return c.b.Tuple(items...), nil
}

func (c *Converter) convertVariant(v *wit.Variant, path []string) (layout.Layout, error) {
	alts := make([]layout.Field, 0, len(v.Cases))
	for _, cs := range v.Cases {
		l, err := c.convert(cs.Type, append(path[:len(path):len(path)], cs.Name))
		if err != nil {
			return nil, err
		}
		alts = append(alts, layout.Named(cs.Name, l))
	}
	return c.variant(alts, path)
}

func (c *Converter) convertEnum(e *wit.Enum) (layout.Layout, error) {
	names := make([]string, len(e.Cases))
	for i, cs := range e.Cases {
		names[i] = cs.Name
	}
	l, err := c.b.EnumBacked(Backing(len(names)), names...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Converter) convertFlags(f *wit.Flags) (layout.Layout, error) {
	fields := make([]layout.Field, len(f.Flags))
	for i, flag := range f.Flags {
		fields[i] = layout.Named(flag.Name, layout.Bool)
	}
	return c.object(fields, nil)
}

func (c *Converter) convertOption(o *wit.Option, path []string) (layout.Layout, error) {
	some, err := c.convert(o.Type, path)
	if err != nil {
		return nil, err
	}
	return c.variant([]layout.Field{
		layout.Named(OptionNone, layout.Unit),
		layout.Named(OptionSome, some),
	}, path)
}

func (c *Converter) convertResult(r *wit.Result, path []string) (layout.Layout, error) {
	ok, err := c.convert(r.OK, path)
	if err != nil {
		return nil, err
	}
	fail, err := c.convert(r.Err, path)
	if err != nil {
		return nil, err
	}
	return c.variant([]layout.Field{
		layout.Named(ResultOK, ok),
		layout.Named(ResultErr, fail),
	}, path)
}

func (c *Converter) convertList(l *wit.List, path []string) (layout.Layout, error) {
	elem, err := c.convert(l.Type, path)
	if err != nil {
		return nil, err
	}
	return layout.ArrayOf(elem), nil
}

func (c *Converter) object(fields []layout.Field, path []string) (layout.Layout, error) {
	o, err := c.b.Object(fields...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindDuplicateName, err, joinPath(path))
	}
	return o, nil
}

func (c *Converter) variant(alts []layout.Field, path []string) (layout.Layout, error) {
	v, err := c.b.Variant(alts...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindDuplicateName, err, joinPath(path))
	}
	return v, nil
}

// Backing returns the smallest unsigned integral able to index n enum cases.
func Backing(n int) layout.Integral {
	switch {
	case n <= math.MaxUint8+1:
		return layout.Uint8
	case n <= math.MaxUint16+1:
		return layout.Uint16
	default:
		return layout.Uint32
	}
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "anonymous type"
	}
	return strings.Join(path, ".")
}
