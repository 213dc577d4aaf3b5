package intern

import "testing"

func TestString_Value(t *testing.T) {
	in := New()

	for _, s := range []string{"", "x", "position", "日本語", "with space"} {
		str := in.Intern(s)
		if got := str.Value(); got != s {
			t.Errorf("Intern(%q).Value() = %q", s, got)
		}
		str.Release()
	}

	if in.Len() != 0 {
		t.Errorf("all strings released, len=%d", in.Len())
	}
}

func TestString_Equality(t *testing.T) {
	in := New()

	a := in.Intern("name")
	b := in.Intern("name")
	c := in.Intern("other")
	defer a.Release()
	defer b.Release()
	defer c.Release()

	if !a.Equal(b) {
		t.Error("equal content should produce equal strings")
	}
	if a.Handle() != b.Handle() {
		t.Error("equal content should share one slot")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal strings should hash equally")
	}
	if a.Equal(c) {
		t.Error("different content should not be equal")
	}
	if !a.Is("name") || a.Is("other") {
		t.Error("Is should compare content")
	}

	other := New()
	d := other.Intern("name")
	defer d.Release()
	if a.Handle() == d.Handle() && a.Equal(d) {
		t.Error("strings from different interners must not be equal")
	}

	var zero String
	e := in.Intern("")
	if !zero.Equal(e) {
		t.Error("the empty string is equal across tables")
	}
}

func TestString_CloneRelease(t *testing.T) {
	in := New()

	a := in.Intern("shared")
	b := a.Clone()
	if in.Refs(a.Handle()) != 2 {
		t.Fatalf("refs after clone: got %d, want 2", in.Refs(a.Handle()))
	}

	a.Release()
	if a.Handle() != Empty {
		t.Error("released string should reset to empty")
	}
	if b.Value() != "shared" {
		t.Errorf("clone should keep content alive, got %q", b.Value())
	}

	b.Release()
	if in.Len() != 0 {
		t.Errorf("len: got %d, want 0", in.Len())
	}
}

func TestString_Assign(t *testing.T) {
	in := New()

	a := in.Intern("left")
	b := in.Intern("right")
	h := a.Handle()

	a.Assign(b)
	if a.Value() != "right" {
		t.Errorf("assigned value: got %q", a.Value())
	}
	if in.Refs(b.Handle()) != 2 {
		t.Errorf("refs of right: got %d, want 2", in.Refs(b.Handle()))
	}
	if in.Get(h) != "" {
		t.Error("old handle should be released by assign")
	}

	// assigning an equal handle leaves counts alone
	a.Assign(b)
	if in.Refs(b.Handle()) != 2 {
		t.Errorf("self assign changed refs: got %d", in.Refs(b.Handle()))
	}

	a.Release()
	b.Release()
}

func TestString_Zero(t *testing.T) {
	var s String
	if s.Value() != "" {
		t.Errorf("zero value: got %q", s.Value())
	}
	c := s.Clone()
	c.Release()
	s.Release()
	if s.Interner() != nil {
		t.Error("zero string has no interner")
	}
}
