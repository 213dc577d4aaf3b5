package layout

import (
	"testing"

	"github.com/wippyai/valuestore/intern"
	"github.com/wippyai/valuestore/layout/internal/abi"
)

func TestSizeAlign_Scalars(t *testing.T) {
	tests := []struct {
		layout Layout
		name   string
		size   uint32
		align  uint32
	}{
		{Bool, "bool", 1, 1},
		{Int8, "i8", 1, 1},
		{Uint8, "u8", 1, 1},
		{Int16, "i16", 2, 2},
		{Uint16, "u16", 2, 2},
		{Int32, "i32", 4, 4},
		{Uint32, "u32", 4, 4},
		{Int64, "i64", 8, 8},
		{Uint64, "u64", 8, 8},
		{Float32, "f32", 4, 4},
		{Float64, "f64", 8, 8},
		{String, "string", intern.HandleSize, intern.HandleSize},
		{Unit, "unit", 0, 1},
		{ArrayOf(Uint64), "array<u64>", 24, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SizeOf(tc.layout); got != tc.size {
				t.Errorf("size: got %d, want %d", got, tc.size)
			}
			if got := AlignOf(tc.layout); got != tc.align {
				t.Errorf("align: got %d, want %d", got, tc.align)
			}
			if got := tc.layout.String(); got != tc.name {
				t.Errorf("String: got %q, want %q", got, tc.name)
			}
		})
	}
}

func TestKind(t *testing.T) {
	if KindVariant.String() != "variant" {
		t.Errorf("KindVariant: got %q", KindVariant.String())
	}
	if Kind(200).String() != "invalid" {
		t.Errorf("out of range kind: got %q", Kind(200).String())
	}
	if !KindUint64.IsIntegral() || KindFloat32.IsIntegral() {
		t.Error("IsIntegral")
	}
	if !KindInt16.IsSigned() || KindUint16.IsSigned() {
		t.Error("IsSigned")
	}
	if !KindEnum.IsComposite() || KindArray.IsComposite() {
		t.Error("IsComposite")
	}
	for k := KindBool; k <= KindUnit; k++ {
		if Of(k).Kind() != k {
			t.Errorf("Of(%s).Kind() = %s", k, Of(k).Kind())
		}
	}
}

func TestIntegral_Max(t *testing.T) {
	tests := []struct {
		backing Integral
		want    uint64
	}{
		{Bool, 1},
		{Uint8, 255},
		{Int8, 127},
		{Uint16, 65535},
		{Int32, 1<<31 - 1},
		{Uint64, 1<<64 - 1},
		{Int64, 1<<63 - 1},
	}
	for _, tt := range tests {
		if got := tt.backing.Max(); got != tt.want {
			t.Errorf("%s.Max() = %d, want %d", tt.backing, got, tt.want)
		}
	}
}

func TestOf_PanicsForComposite(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Of(KindObject) should panic")
		}
	}()
	Of(KindObject)
}

func TestInvariants(t *testing.T) {
	b := NewBuilder(intern.New())

	vec, _ := b.Object(Named("x", Float32), Named("y", Float32), Named("z", Float32))
	opt, _ := b.Variant(Named("none", Unit), Named("some", vec))
	color, _ := b.EnumBacked(Uint8, "red", "green", "blue")
	nested, _ := b.Object(
		Named("id", Uint64),
		Named("tag", Bool),
		Named("color", color),
		Named("pos", opt),
		Named("pair", b.Tuple(Int8, Float64)),
		Named("list", ArrayOf(vec)),
	)
	empty, _ := b.Object()

	for _, l := range []Layout{vec, opt, color, nested, empty, b.Tuple(), ArrayOf(ArrayOf(String))} {
		size, align := SizeOf(l), AlignOf(l)
		if !abi.IsPowerOfTwo(align) {
			t.Errorf("%s: align %d is not a power of two", l, align)
		}
		if size%align != 0 {
			t.Errorf("%s: size %d is not a multiple of align %d", l, size, align)
		}
	}
}

func TestInitialize(t *testing.T) {
	in := intern.New()
	b := NewBuilder(in)

	opt, err := b.Variant(Named("none", Unit), Named("some", Uint32))
	if err != nil {
		t.Fatal(err)
	}
	obj, err := b.Object(Named("n", Int32), Named("s", String), Named("o", opt), Named("a", ArrayOf(Uint8)))
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, SizeOf(obj))
	for i := range buf {
		buf[i] = 0xff
	}
	Initialize(obj, buf)

	for i, c := range buf {
		if c != 0 {
			t.Errorf("byte %d: got %#x, want 0", i, c)
		}
	}
}

func TestInitialize_VariantOnlyFirstPayload(t *testing.T) {
	b := NewBuilder(intern.New())
	v, _ := b.Variant(Named("small", Uint8), Named("big", Uint64))

	buf := make([]byte, SizeOf(v))
	for i := range buf {
		buf[i] = 0xaa
	}
	Initialize(v, buf)

	if v.Tag(buf) != 0 {
		t.Errorf("tag: got %d, want 0", v.Tag(buf))
	}
	if buf[v.PayloadOffset()] != 0 {
		t.Error("alternative 0 payload should be zeroed")
	}
}

func TestInitialize_ShortBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Initialize on a short buffer should panic")
		}
	}()
	Initialize(Uint64, make([]byte, 4))
}

func TestRetainRelease(t *testing.T) {
	in := intern.New()
	b := NewBuilder(in)

	obj, err := b.Object(Named("name", String), Named("age", Uint8))
	if err != nil {
		t.Fatal(err)
	}
	if in.Len() != 2 {
		t.Fatalf("interned names: got %d, want 2", in.Len())
	}

	held := Retain(obj).(Object)
	if obj.body.Count() != 2 {
		t.Errorf("count after retain: got %d, want 2", obj.body.Count())
	}

	Release(obj)
	if held.Field(0).Name != "name" {
		t.Error("retained layout should stay usable")
	}
	Release(held)
	if in.Len() != 0 {
		t.Errorf("names should be released with the layout, %d remain", in.Len())
	}
}

func TestRetain_NestedComposite(t *testing.T) {
	in := intern.New()
	b := NewBuilder(in)

	inner, _ := b.Object(Named("x", Float64))
	outer, _ := b.Object(Named("inner", inner))
	if inner.body.Count() != 2 {
		t.Errorf("nested layout should be retained by its parent, count=%d", inner.body.Count())
	}

	Release(inner)
	if m, ok := outer.Lookup("inner"); !ok || m.Layout.(Object).Field(0).Name != "x" {
		t.Error("parent keeps nested layout alive")
	}
	Release(outer)
	if in.Len() != 0 {
		t.Errorf("all names released, %d remain", in.Len())
	}
}

func TestArray_DeepClone(t *testing.T) {
	inner := ArrayOf(Uint32)
	outer := ArrayOf(inner)

	cloned := Retain(outer).(Array)
	if cloned.elem == outer.elem {
		t.Error("retaining an array must clone its element slot")
	}
	if !Equal(cloned, outer) {
		t.Error("clone should be structurally equal")
	}

	Release(outer)
	if cloned.Elem() == nil {
		t.Error("cloned element must survive release of the original")
	}
	Release(cloned)
	Release(inner)
}

func TestEqual(t *testing.T) {
	in := intern.New()
	b := NewBuilder(in)

	a, _ := b.Object(Named("x", Float64), Named("y", Float64))
	c, _ := b.Object(Named("x", Float64), Named("y", Float64))
	d, _ := b.Object(Named("x", Float64), Named("z", Float64))
	e, _ := b.Object(Named("x", Float64), Named("y", Float32))

	tests := []struct {
		name string
		a, b Layout
		want bool
	}{
		{"identity", a, a, true},
		{"same structure", a, c, true},
		{"different name", a, d, false},
		{"different type", a, e, false},
		{"scalar", Uint8, Uint8, true},
		{"scalar mismatch", Uint8, Int8, false},
		{"kind mismatch", a, b.Tuple(Float64, Float64), false},
		{"arrays", ArrayOf(String), ArrayOf(String), true},
		{"array elems differ", ArrayOf(String), ArrayOf(Unit), false},
		{"nil", nil, nil, true},
		{"nil vs layout", nil, Unit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	b := NewBuilder(intern.New())

	obj, _ := b.Object(Named("x", Float64))
	opt, _ := b.Variant(Named("none", Unit), Named("some", Uint32))
	tagged, _ := b.TaggedVariant("kind", Named("a", Unit))
	color, _ := b.Enum("red", "green")

	tests := []struct {
		layout Layout
		want   string
	}{
		{obj, "object{x: f64}"},
		{b.Tuple(Uint8, Float64), "tuple<u8, f64>"},
		{opt, "variant{none: unit, some: u32}"},
		{tagged, "variant[kind]{a: unit}"},
		{color, "enum<u32>{red, green}"},
		{ArrayOf(Uint64), "array<u64>"},
		{ArrayOf(obj), "array<object{x: f64}>"},
		{Object{}, "object{}"},
	}

	for _, tt := range tests {
		if got := tt.layout.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestWalk(t *testing.T) {
	b := NewBuilder(intern.New())

	opt, _ := b.Variant(Named("none", Unit), Named("some", Uint32))
	inner, _ := b.Object(Named("v", Uint16))
	root, _ := b.Object(
		Named("a", Uint8),
		Named("t", b.Tuple(Uint8, Uint32)),
		Named("o", opt),
		Named("list", ArrayOf(inner)),
	)

	type visit struct {
		path     string
		offset   uint32
		indirect int
	}
	var got []visit
	Walk(root, func(e Entry) bool {
		got = append(got, visit{e.Path, e.Offset, e.Indirect})
		return true
	})

	want := []visit{
		{"", 0, 0},
		{"a", 0, 0},
		{"t", 4, 0},
		{"t.0", 4, 0},
		{"t.1", 8, 0},
		{"o", 12, 0},
		{"o.none", 16, 0},
		{"o.some", 16, 0},
		{"list", 24, 0},
		{"list[]", 0, 1},
		{"list[].v", 0, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("visited %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	b := NewBuilder(intern.New())
	inner, _ := b.Object(Named("x", Uint8))
	root, _ := b.Object(Named("inner", inner), Named("y", Uint8))

	var paths []string
	Walk(root, func(e Entry) bool {
		paths = append(paths, e.Path)
		return e.Path != "inner"
	})
	if len(paths) != 3 {
		t.Errorf("paths: got %v, want [ inner y]", paths)
	}
}
