// Package intern canonicalizes strings to small reference counted handles.
//
// After the first Acquire, equality and hashing of field, variant and enum
// names are integer operations:
//
//	in := intern.New()          // or intern.Default() for the process table
//	a := in.Intern("position")
//	b := in.Intern("position")  // same handle, same slot, refs = 2
//	a.Equal(b)                  // true, compares handles
//	a.Release()
//	b.Release()                 // slot returns to the free list
//
// The table is a slot slice with a free list plus a content index. Acquire,
// AddRef and RemoveRef take the exclusive lock; Get and Lookup take the shared
// lock. Handle 0 is the empty string and never occupies a slot.
//
// Tests should use New instead of Default so counts do not leak between tests.
package intern
