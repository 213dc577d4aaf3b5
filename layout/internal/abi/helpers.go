package abi

import "math"

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// AlignTo rounds offset up to a multiple of align, which must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// SafeAlignTo is AlignTo reporting false when rounding wraps past MaxUint32.
func SafeAlignTo(offset, align uint32) (uint32, bool) {
	if align == 0 {
		return offset, true
	}
	end, ok := SafeAddU32(offset, align-1)
	if !ok {
		return 0, false
	}
	return end &^ (align - 1), true
}

func IsPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// DiscriminantSize returns the smallest tag width in bytes, one of 1, 2, 4
// or 8, able to index n alternatives. Zero alternatives still take one byte.
func DiscriminantSize(n uint64) uint32 {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	case n <= 1<<32:
		return 4
	default:
		return 8
	}
}
