package stream

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout"
	"github.com/wippyai/valuestore/value"
)

type env struct {
	in   *intern.Interner
	b    *layout.Builder
	opts value.Options
}

func newEnv() *env {
	in := intern.New()
	opts := value.DefaultOptions()
	opts.Interner = in
	return &env{in: in, b: layout.NewBuilder(in), opts: opts}
}

// record builds object{id: u32, name: string, color: enum, pos: tuple<f32, f32>,
// tags: array<string>, opt: variant{none, some: i64}, kind: tagged variant}.
func (e *env) record(t *testing.T) layout.Object {
	t.Helper()
	color, err := e.b.EnumBacked(layout.Uint8, "red", "green", "blue")
	if err != nil {
		t.Fatal(err)
	}
	opt, err := e.b.Variant(layout.Named("none", layout.Unit), layout.Named("some", layout.Int64))
	if err != nil {
		t.Fatal(err)
	}
	kind, err := e.b.TaggedVariant("type",
		layout.Named("circle", layout.Float64),
		layout.Named("label", layout.String),
	)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := e.b.Object(
		layout.Named("id", layout.Uint32),
		layout.Named("name", layout.String),
		layout.Named("color", color),
		layout.Named("pos", e.b.Tuple(layout.Float32, layout.Float32)),
		layout.Named("tags", layout.ArrayOf(layout.String)),
		layout.Named("opt", opt),
		layout.Named("kind", kind),
		layout.Named("ok", layout.Bool),
	)
	if err != nil {
		t.Fatal(err)
	}
	return obj
}

func sample() *Node {
	return ObjectNode().
		Set("id", UintNode(42)).
		Set("name", StringNode("widget")).
		Set("color", EnumNode("blue")).
		Set("pos", ArrayNode(FloatNode(1.5), FloatNode(-2))).
		Set("tags", ArrayNode(StringNode("a"), StringNode("b"), StringNode("c"), StringNode("d"), StringNode("e"))).
		Set("opt", ObjectNode().Set("some", IntNode(-7))).
		Set("kind", ObjectNode().Set("type", VariantNode("label")).Set("value", StringNode("hi"))).
		Set("ok", BoolNode(true))
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	e := newEnv()
	h := value.NewWithOptions(e.record(t), e.opts)
	defer h.Release()

	src := sample()
	m := h.Root().ViewMut()
	if err := FromTree(src, m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	m.Close()

	v := h.Root().View()
	defer v.Close()

	tags, _ := v.Field("tags")
	if n, _ := tags.Len(); n != 5 {
		t.Errorf("tags len: %d", n)
	}
	label, ok := v.Resolve("kind.label")
	if !ok {
		t.Fatal("kind should hold the label alternative")
	}
	if s, _ := label.String(); s != "hi" {
		t.Errorf("label: %q", s)
	}

	out, err := ToTree(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{id: 42, name: "widget", color: #blue, pos: [1.5, -2], tags: ["a", "b", "c", "d", "e"], ` +
		`opt: {some: -7}, kind: {type: @label, value: "hi"}, ok: true}`
	if got := out.String(); got != want {
		t.Errorf("encoded:\n got %s\nwant %s", got, want)
	}
}

func TestEncode_Defaults(t *testing.T) {
	e := newEnv()
	h := value.NewWithOptions(e.record(t), e.opts)
	defer h.Release()

	v := h.Root().View()
	defer v.Close()
	out, err := ToTree(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{id: 0, name: "", color: #red, pos: [0, 0], tags: [], opt: {none: {}}, ` +
		`kind: {type: @circle, value: 0}, ok: false}`
	if got := out.String(); got != want {
		t.Errorf("defaults:\n got %s\nwant %s", got, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	e := newEnv()
	rec := e.record(t)

	tests := []struct {
		name   string
		mutate func(n *Node)
		want   error
		path   string
	}{
		{"missing key", func(n *Node) {
			n.Keys = n.Keys[1:]
			n.Values = n.Values[1:]
		}, ErrKeyNotExists, "id"},
		{"wrong type", func(n *Node) { n.Set("id", StringNode("x")) }, ErrInvalidType, "id"},
		{"out of range", func(n *Node) { n.Set("id", IntNode(-1)) }, ErrInvalidType, "id"},
		{"unknown enum", func(n *Node) { n.Set("color", EnumNode("purple")) }, ErrInvalidType, "color"},
		{"tuple length", func(n *Node) { n.Set("pos", ArrayNode(FloatNode(1))) }, ErrArrayLengthMismatch, "pos"},
		{"unknown alternative", func(n *Node) { n.Set("opt", ObjectNode().Set("maybe", IntNode(1))) }, ErrInvalidType, "opt"},
		{"missing discriminant", func(n *Node) { n.Set("kind", ObjectNode().Set("value", StringNode("x"))) }, ErrKeyNotExists, "kind.type"},
		{"nested element", func(n *Node) { n.Set("tags", ArrayNode(StringNode("a"), BoolNode(true))) }, ErrInvalidType, "tags.[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := value.NewWithOptions(rec, e.opts)
			defer h.Release()

			src := sample()
			tt.mutate(src)
			m := h.Root().ViewMut()
			err := FromTree(src, m)
			m.Close()

			if !stderrors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if got := pathOf(err); got != tt.path {
				t.Errorf("path: got %q, want %q", got, tt.path)
			}
		})
	}
}

func TestDecode_StaleView(t *testing.T) {
	e := newEnv()
	h := value.NewWithOptions(layout.ArrayOf(layout.Uint8), e.opts)
	defer h.Release()

	old := h.Root()
	m := h.Root().ViewMut()
	m.PushUint8(1)
	m.Close()

	stale := old.ViewMut()
	defer stale.Close()
	err := FromTree(ArrayNode(UintNode(2)), stale)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseStream, Kind: errors.KindStaleReference}) {
		t.Fatalf("decoding into a stale view: got %v", err)
	}
	var se *errors.Error
	stderrors.As(err, &se)
	want := fmt.Sprintf("reference generation %d, value generation %d", old.Generation(), h.Generation())
	if se.Detail != want {
		t.Errorf("detail: got %q, want %q", se.Detail, want)
	}
	if old.Generation() == h.Generation() {
		t.Error("push should advance the generation")
	}
}

func TestDecode_ArrayReuse(t *testing.T) {
	e := newEnv()
	h := value.NewWithOptions(layout.ArrayOf(layout.Uint8), e.opts)
	defer h.Release()

	m := h.Root().ViewMut()
	defer m.Close()
	if err := FromTree(ArrayNode(UintNode(1), UintNode(2)), m); err != nil {
		t.Fatal(err)
	}
	if err := FromTree(ArrayNode(UintNode(3), UintNode(4), UintNode(5)), m); err != nil {
		t.Fatal(err)
	}
	if n, _ := m.Len(); n != 3 {
		t.Errorf("len: %d", n)
	}
	first, _ := m.Index(0)
	if x, _ := first.Uint8(); x != 3 {
		t.Errorf("existing elements should be overwritten, got %d", x)
	}
	err := FromTree(ArrayNode(UintNode(9)), m)
	if !stderrors.Is(err, ErrArrayLengthMismatch) {
		t.Errorf("shrinking should fail with length mismatch, got %v", err)
	}
}

func TestTreeWriter_Errors(t *testing.T) {
	w := NewTreeWriter()
	if err := w.WriteKey("x"); !stderrors.Is(err, ErrInvalidType) {
		t.Errorf("key at root: %v", err)
	}
	if err := w.BeginArray(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint8(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint8(2); !stderrors.Is(err, ErrArrayLengthMismatch) {
		t.Errorf("overfull array: %v", err)
	}
	if w.Root() != nil {
		t.Error("Root should be nil while a container is open")
	}
	if err := w.EndArray(); err != nil {
		t.Fatal(err)
	}
	if err := w.EndObject(); !stderrors.Is(err, ErrInvalidType) {
		t.Errorf("unbalanced end: %v", err)
	}
	if w.Root().String() != "[1]" {
		t.Errorf("root: %s", w.Root())
	}

	short := NewTreeWriter()
	short.BeginArray(2)
	short.WriteBool(true)
	if err := short.EndArray(); !stderrors.Is(err, ErrArrayLengthMismatch) {
		t.Errorf("short array: %v", err)
	}
}

func TestTreeReader_Variant(t *testing.T) {
	r := NewTreeReader(ObjectNode().Set("some", UintNode(3)))
	if err := r.BeginObject(); err != nil {
		t.Fatal(err)
	}
	name, err := r.ReadVariant()
	if err != nil || name != "some" {
		t.Fatalf("ReadVariant: %q, %v", name, err)
	}
	if x, err := r.ReadUint32(); err != nil || x != 3 {
		t.Errorf("payload: %d, %v", x, err)
	}
	if err := r.EndObject(); err != nil {
		t.Error(err)
	}

	two := NewTreeReader(ObjectNode().Set("a", UintNode(1)).Set("b", UintNode(2)))
	two.BeginObject()
	if _, err := two.ReadVariant(); !stderrors.Is(err, ErrInvalidType) {
		t.Errorf("two keys: %v", err)
	}
}

func pathOf(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return ""
	}
	return strings.Join(e.Path, ".")
}
