// Package conv provides checked integer narrowing for the match engine.
//
// Backtrack frames store atom indexes and line offsets as uint32 to keep the
// choice-point stack compact. A value that does not fit means a line or a
// pattern far beyond anything the engine is meant to handle, so the helpers
// panic instead of silently wrapping.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so the check also holds where int is 32 bits wide.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// FitsUint32 reports whether IntToUint32 would accept n.
func FitsUint32(n int) bool {
	return n >= 0 && uint(n) <= math.MaxUint32
}
