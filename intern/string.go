package intern

// String is an owned reference to an interned string.
//
// Equality and hashing use the handle only, never the content. The zero
// String is the empty string.
type String struct {
	in *Interner
	h  Handle
}

// Intern acquires s from the default interner.
func Intern(s string) String {
	return Default().Intern(s)
}

// Intern acquires s and returns an owned String.
func (in *Interner) Intern(s string) String {
	return String{in: in, h: in.Acquire(s)}
}

// Value returns the string content.
func (s String) Value() string {
	if s.in == nil {
		return ""
	}
	return s.in.Get(s.h)
}

// String implements fmt.Stringer.
func (s String) String() string {
	return s.Value()
}

// Handle returns the underlying handle.
func (s String) Handle() Handle {
	return s.h
}

// Interner returns the table s belongs to, nil for the zero String.
func (s String) Interner() *Interner {
	return s.in
}

// Clone adds a reference and returns a second owned String.
func (s String) Clone() String {
	if s.in == nil {
		return s
	}
	return String{in: s.in, h: s.in.AddRef(s.h)}
}

// Release drops the reference held by s and resets it to the empty string.
func (s *String) Release() {
	if s.in != nil {
		s.in.RemoveRef(s.h)
	}
	s.h = Empty
}

// Assign makes s reference the same string as o. The old handle is released
// and the new one acquired only when they differ.
func (s *String) Assign(o String) {
	if s.in == o.in && s.h == o.h {
		return
	}
	next := o.Clone()
	s.Release()
	*s = next
}

// Equal compares handles. Strings from different interners are never equal,
// except that the empty string is equal everywhere.
func (s String) Equal(o String) bool {
	if s.h != o.h {
		return false
	}
	return s.h == Empty || s.in == o.in
}

// Is compares the content of s with v.
func (s String) Is(v string) bool {
	return s.Value() == v
}

// Hash returns a hash derived from the handle only.
func (s String) Hash() uint64 {
	// fibonacci hashing spreads small sequential handles
	return uint64(s.h) * 0x9e3779b97f4a7c15
}
