package abi

import (
	"math"
	"testing"
)

func TestSafeAddU32(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint32
		want   uint32
		wantOK bool
	}{
		{"zero + zero", 0, 0, 0, true},
		{"zero + max", 0, math.MaxUint32, math.MaxUint32, true},
		{"one + one", 1, 1, 2, true},
		{"max + one", math.MaxUint32, 1, 0, false},
		{"one + max", 1, math.MaxUint32, 0, false},
		{"large offset + size ok", 0xFFFF0000, 0x0000FFFF, 0xFFFFFFFF, true},
		{"large offset + size overflow", 0xFFFF0000, 0x00010000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeAddU32(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Errorf("SafeAddU32(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SafeAddU32(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		name   string
		offset uint32
		align  uint32
		want   uint32
	}{
		{"align 0", 5, 0, 5},
		{"offset 0 align 1", 0, 1, 0},
		{"offset 5 align 1", 5, 1, 5},
		{"offset 1 align 2", 1, 2, 2},
		{"offset 3 align 2", 3, 2, 4},
		{"offset 1 align 4", 1, 4, 4},
		{"offset 4 align 4", 4, 4, 4},
		{"offset 5 align 4", 5, 4, 8},
		{"offset 1 align 8", 1, 8, 8},
		{"offset 9 align 8", 9, 8, 16},
		{"offset 17 align 16", 17, 16, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignTo(tt.offset, tt.align); got != tt.want {
				t.Errorf("AlignTo(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
			}
			got, ok := SafeAlignTo(tt.offset, tt.align)
			if !ok || got != tt.want {
				t.Errorf("SafeAlignTo(%d, %d) = %d, %v, want %d, true", tt.offset, tt.align, got, ok, tt.want)
			}
		})
	}
}

func TestSafeAlignTo_Overflow(t *testing.T) {
	if _, ok := SafeAlignTo(math.MaxUint32, 8); ok {
		t.Error("rounding MaxUint32 up to 8 should overflow")
	}
	if got, ok := SafeAlignTo(math.MaxUint32-7, 8); !ok || got != math.MaxUint32-7 {
		t.Errorf("aligned offset near the limit: got %d, %v", got, ok)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []uint32{1, 2, 4, 8, 16, 1 << 31} {
		if !IsPowerOfTwo(v) {
			t.Errorf("IsPowerOfTwo(%d) = false", v)
		}
	}
	for _, v := range []uint32{0, 3, 6, 12, math.MaxUint32} {
		if IsPowerOfTwo(v) {
			t.Errorf("IsPowerOfTwo(%d) = true", v)
		}
	}
}

func TestDiscriminantSize(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint32
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{255, 1},
		{256, 1},
		{257, 2},
		{1 << 16, 2},
		{1<<16 + 1, 4},
		{1 << 32, 4},
		{1<<32 + 1, 8},
	}

	for _, tt := range tests {
		if got := DiscriminantSize(tt.n); got != tt.want {
			t.Errorf("DiscriminantSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
