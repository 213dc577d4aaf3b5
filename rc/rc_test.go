package rc

import (
	"slices"
	"sync"
	"testing"
)

type tracked struct {
	drops *int
	name  string
}

func (t *tracked) Release() {
	*t.drops++
}

func TestRc_CloneRelease(t *testing.T) {
	drops := 0
	a := New(tracked{name: "layout", drops: &drops})
	if a.Count() != 1 {
		t.Fatalf("count: got %d, want 1", a.Count())
	}

	b := a.Clone()
	if a.Count() != 2 {
		t.Fatalf("count after clone: got %d, want 2", a.Count())
	}
	if b.Get().name != "layout" {
		t.Errorf("clone content: got %q, want layout", b.Get().name)
	}

	a.Release()
	if a.Valid() {
		t.Error("released handle should be empty")
	}
	if drops != 0 {
		t.Fatalf("payload dropped while a copy is alive")
	}
	if b.Get().name != "layout" {
		t.Errorf("content unreachable through remaining copy")
	}

	b.Release()
	if drops != 1 {
		t.Errorf("drops: got %d, want 1", drops)
	}

	// releasing an empty handle is a no-op
	b.Release()
	if drops != 1 {
		t.Errorf("drops after double release: got %d, want 1", drops)
	}
}

func TestRc_Take(t *testing.T) {
	a := New(42)
	b := a.Take()

	if a.Valid() {
		t.Error("source should be cleared by Take")
	}
	if b.Count() != 1 {
		t.Errorf("Take must not change count: got %d", b.Count())
	}
	if *b.Get() != 42 {
		t.Errorf("moved content: got %d, want 42", *b.Get())
	}
	b.Release()
}

func TestRc_Assign(t *testing.T) {
	drops := 0
	a := New(tracked{name: "a", drops: &drops})
	b := New(tracked{name: "b", drops: &drops})

	a.Assign(b)
	if drops != 1 {
		t.Errorf("old payload should be dropped on assign, drops=%d", drops)
	}
	if !Same(a, b) {
		t.Error("assigned handle should share b's allocation")
	}
	if b.Count() != 2 {
		t.Errorf("count: got %d, want 2", b.Count())
	}

	// self-assignment keeps the count
	a.Assign(b)
	if b.Count() != 2 {
		t.Errorf("count after self assign: got %d, want 2", b.Count())
	}

	a.Release()
	b.Release()
	if drops != 2 {
		t.Errorf("drops: got %d, want 2", drops)
	}
}

func TestRc_Equality(t *testing.T) {
	a := New("x")
	b := New("x")
	c := a.Clone()
	defer a.Release()
	defer b.Release()
	defer c.Release()

	if !Equal(a, b) {
		t.Error("equal content should compare equal")
	}
	if Same(a, b) {
		t.Error("independent allocations should not be identical")
	}
	if !Same(a, c) {
		t.Error("clone should be identical")
	}

	called := false
	EqualFunc(a, c, func(x, y *string) bool {
		called = true
		return *x == *y
	})
	if called {
		t.Error("identity fast path should skip the content comparison")
	}
}

func TestRc_OverRelease(t *testing.T) {
	a := New(1)
	b := a
	a.Release()

	defer func() {
		if recover() == nil {
			t.Error("releasing past zero should panic")
		}
	}()
	b.Release()
}

func TestRc_ConcurrentClone(t *testing.T) {
	drops := 0
	a := New(tracked{name: "shared", drops: &drops})

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		c := a.Clone()
		go func() {
			defer wg.Done()
			d := c.Clone()
			d.Release()
			c.Release()
		}()
	}
	wg.Wait()

	if a.Count() != 1 {
		t.Fatalf("count: got %d, want 1", a.Count())
	}
	a.Release()
	if drops != 1 {
		t.Errorf("drops: got %d, want 1", drops)
	}
}

func TestArray_Build(t *testing.T) {
	t.Run("fixed list", func(t *testing.T) {
		a := ArrayOf(0, 1, 2, 3, 4, 5)
		defer a.Release()

		if a.Len() != 6 {
			t.Fatalf("len: got %d, want 6", a.Len())
		}
		got := slices.Collect(a.Values())
		if !slices.Equal(got, []int{0, 1, 2, 3, 4, 5}) {
			t.Errorf("values: got %v", got)
		}
		if *a.At(3) != 3 {
			t.Errorf("At(3): got %d", *a.At(3))
		}
	})

	t.Run("sequence", func(t *testing.T) {
		a := Collect(slices.Values([]string{"red", "green", "blue"}))
		defer a.Release()

		for i, v := range a.All() {
			want := []string{"red", "green", "blue"}[i]
			if v != want {
				t.Errorf("element %d: got %q, want %q", i, v, want)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		a := ArrayOf[int]()
		defer a.Release()
		if a.Len() != 0 {
			t.Errorf("len: got %d, want 0", a.Len())
		}
	})

	t.Run("out of range", func(t *testing.T) {
		a := ArrayOf(1)
		defer a.Release()
		defer func() {
			if recover() == nil {
				t.Error("At out of range should panic")
			}
		}()
		a.At(1)
	})
}

func TestArray_Equality(t *testing.T) {
	a := ArrayOf(1, 2, 3)
	b := ArrayOf(1, 2, 3)
	c := ArrayOf(1, 2)
	defer a.Release()
	defer b.Release()
	defer c.Release()

	if !ArrayEqual(a, b) {
		t.Error("arrays with equal elements should be content-equal")
	}
	if ArraySame(a, b) {
		t.Error("independently built arrays should fail identity comparison")
	}
	if ArrayEqual(a, c) {
		t.Error("arrays of different length should differ")
	}

	d := a.Clone()
	defer d.Release()
	if !ArraySame(a, d) {
		t.Error("clone should be identical")
	}
}

func TestArray_ElementLifecycle(t *testing.T) {
	drops := 0
	inner := New(tracked{name: "field", drops: &drops})

	arr := ArrayOf(inner, inner)
	if inner.Count() != 3 {
		t.Fatalf("elements should be copy-constructed: count %d, want 3", inner.Count())
	}
	inner.Release()

	dup := arr.Clone()
	arr.Release()
	if drops != 0 {
		t.Fatal("elements dropped while array copy alive")
	}
	if dup.At(1).Get().name != "field" {
		t.Error("element unreachable through copy")
	}

	dup.Release()
	if drops != 1 {
		t.Errorf("drops: got %d, want exactly 1", drops)
	}
}

func TestArray_Nested(t *testing.T) {
	row := ArrayOf(1, 2)
	grid := ArrayOf(row, row)
	row.Release()

	other := ArrayOf(ArrayOf(1, 2), ArrayOf(1, 2))
	defer other.Release()
	defer grid.Release()

	eq := ArrayEqualFunc(grid, other, func(x, y *Array[int]) bool {
		return ArrayEqual(*x, *y)
	})
	if !eq {
		t.Error("nested arrays with equal content should compare equal")
	}
}
