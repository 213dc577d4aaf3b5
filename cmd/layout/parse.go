package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/wippyai/valuestore/errors"
	"go.bytecodealliance.org/wit"
)

// parseType reads a type expression:
//
//	u32 | string | ...                   WIT primitive names
//	list<T>  option<T>  tuple<T, ...>
//	result<T, E>  result<_, E>  result<T>  result
//	record{name: T, ...}
//	variant{name(T), name, ...}
//	enum{name, ...}  flags{name, ...}
func parseType(s string) (wit.Type, error) {
	p := &parser{src: s}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, errors.ParseFailed("type "+s, err)
	}
	if p.tok != "" {
		return nil, errors.ParseFailed("type "+s, fmt.Errorf("unexpected %q at %d", p.tok, p.pos))
	}
	return t, nil
}

type parser struct {
	src string
	tok string
	pos int
	off int
}

// next advances to the following token: an identifier or one punctuation rune.
func (p *parser) next() {
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	p.pos = p.off
	if p.off == len(p.src) {
		p.tok = ""
		return
	}
	if !isIdent(p.src[p.off]) {
		p.tok = p.src[p.off : p.off+1]
		p.off++
		return
	}
	end := p.off
	for end < len(p.src) && isIdent(p.src[end]) {
		end++
	}
	p.tok = p.src[p.off:end]
	p.off = end
}

func isIdent(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *parser) expect(tok string) error {
	if p.tok != tok {
		return p.unexpected("expected " + tok)
	}
	p.next()
	return nil
}

func (p *parser) unexpected(want string) error {
	if p.tok == "" {
		return fmt.Errorf("%s, found end of input", want)
	}
	return fmt.Errorf("%s, found %q at %d", want, p.tok, p.pos)
}

func (p *parser) ident() (string, error) {
	if p.tok == "" || !isIdent(p.tok[0]) {
		return "", p.unexpected("expected name")
	}
	name := p.tok
	p.next()
	return name, nil
}

func (p *parser) parseType() (wit.Type, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	switch name {
	case "list":
		elems, err := p.typeArgs(1, 1)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elems[0]}}, nil
	case "option":
		elems, err := p.typeArgs(1, 1)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elems[0]}}, nil
	case "tuple":
		elems, err := p.typeArgs(1, -1)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: elems}}, nil
	case "result":
		r := &wit.Result{}
		if p.tok == "<" {
			elems, err := p.typeArgs(1, 2)
			if err != nil {
				return nil, err
			}
			r.OK = elems[0]
			if len(elems) == 2 {
				r.Err = elems[1]
			}
		}
		return &wit.TypeDef{Kind: r}, nil
	case "record":
		return p.record()
	case "variant":
		return p.variant()
	case "enum":
		names, err := p.names()
		if err != nil {
			return nil, err
		}
		cases := make([]wit.EnumCase, len(names))
		for i, n := range names {
			cases[i] = wit.EnumCase{Name: n}
		}
		return &wit.TypeDef{Kind: &wit.Enum{Cases: cases}}, nil
	case "flags":
		names, err := p.names()
		if err != nil {
			return nil, err
		}
		flags := make([]wit.Flag, len(names))
		for i, n := range names {
			flags[i] = wit.Flag{Name: n}
		}
		return &wit.TypeDef{Kind: &wit.Flags{Flags: flags}}, nil
	case "_":
		return nil, nil
	}
	return wit.ParseType(name)
}

// typeArgs reads <T, ...> with between lo and hi arguments, hi < 0 meaning
// unbounded.
func (p *parser) typeArgs(lo, hi int) ([]wit.Type, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	var types []wit.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if p.tok != "," {
			break
		}
		p.next()
	}
	if len(types) < lo || hi >= 0 && len(types) > hi {
		return nil, fmt.Errorf("%d type arguments, want %d to %d", len(types), lo, hi)
	}
	return types, p.expect(">")
}

// list reads {item, item, ...}, calling item at each element.
func (p *parser) list(item func() error) error {
	if err := p.expect("{"); err != nil {
		return err
	}
	for p.tok != "}" {
		if err := item(); err != nil {
			return err
		}
		if p.tok != "," {
			break
		}
		p.next()
	}
	return p.expect("}")
}

func (p *parser) names() ([]string, error) {
	var names []string
	err := p.list(func() error {
		n, err := p.ident()
		if err != nil {
			return err
		}
		names = append(names, n)
		return nil
	})
	return names, err
}

func (p *parser) record() (wit.Type, error) {
	r := &wit.Record{}
	err := p.list(func() error {
		n, err := p.ident()
		if err != nil {
			return err
		}
		if err := p.expect(":"); err != nil {
			return err
		}
		t, err := p.parseType()
		if err != nil {
			return err
		}
		r.Fields = append(r.Fields, wit.Field{Name: n, Type: t})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: r}, nil
}

func (p *parser) variant() (wit.Type, error) {
	v := &wit.Variant{}
	err := p.list(func() error {
		n, err := p.ident()
		if err != nil {
			return err
		}
		c := wit.Case{Name: n}
		if p.tok == "(" {
			p.next()
			if c.Type, err = p.parseType(); err != nil {
				return err
			}
			if err := p.expect(")"); err != nil {
				return err
			}
		}
		v.Cases = append(v.Cases, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: v}, nil
}

// describe renders a parsed type back into the expression syntax.
func describe(t wit.Type) string {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return primitiveName(t)
	}
	var b strings.Builder
	switch k := td.Kind.(type) {
	case *wit.List:
		fmt.Fprintf(&b, "list<%s>", describe(k.Type))
	case *wit.Option:
		fmt.Fprintf(&b, "option<%s>", describe(k.Type))
	case *wit.Tuple:
		b.WriteString("tuple<")
		for i, e := range k.Types {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(describe(e))
		}
		b.WriteString(">")
	case *wit.Result:
		fmt.Fprintf(&b, "result<%s, %s>", describe(k.OK), describe(k.Err))
	case *wit.Record:
		b.WriteString("record{")
		for i, f := range k.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", f.Name, describe(f.Type))
		}
		b.WriteString("}")
	case *wit.Variant:
		b.WriteString("variant{")
		for i, c := range k.Cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			if c.Type != nil {
				fmt.Fprintf(&b, "(%s)", describe(c.Type))
			}
		}
		b.WriteString("}")
	case *wit.Enum:
		b.WriteString("enum{")
		for i, c := range k.Cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString("}")
	case *wit.Flags:
		b.WriteString("flags{")
		for i, f := range k.Flags {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
		}
		b.WriteString("}")
	default:
		fmt.Fprintf(&b, "%T", k)
	}
	return b.String()
}

func primitiveName(t wit.Type) string {
	switch t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	default:
		return fmt.Sprintf("%T", t)
	}
}
