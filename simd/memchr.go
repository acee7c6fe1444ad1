// Package simd provides byte search primitives for scanning folded lines.
//
// Everything here is pure Go. Memchr and its multi-needle variants use the
// SWAR (SIMD Within A Register) technique and inspect 8 bytes per step with
// uint64 arithmetic, which keeps the package portable across every GOARCH
// without assembly.
package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes returns a word whose high bit is set in every byte of v that is
// zero. Only the lowest set bit is exact; that is the one callers use.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Algorithm:
//  1. Broadcast needle into every byte of a uint64
//  2. XOR each 8-byte chunk with it (matching bytes become 0x00)
//  3. Detect a zero byte with the Hacker's Delight formula
//  4. Convert the lowest marked bit to a byte position
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}

// Memchr3 returns the index of the first instance of needle1, needle2, or
// needle3 in haystack, or -1 if none are present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	mask3 := uint64(needle3) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2) | zeroBytes(chunk^mask3)
		if z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 || b == needle3 {
			return i
		}
	}
	return -1
}

// MemchrInTable finds the first byte where table[byte] is true.
// Returns position or -1 if not found.
func MemchrInTable(haystack []byte, table *[256]bool) int {
	if len(haystack) == 0 || table == nil {
		return -1
	}
	i := 0
	// Unrolled by four.
	for ; i+4 <= len(haystack); i += 4 {
		if table[haystack[i]] {
			return i
		}
		if table[haystack[i+1]] {
			return i + 1
		}
		if table[haystack[i+2]] {
			return i + 2
		}
		if table[haystack[i+3]] {
			return i + 3
		}
	}
	for ; i < len(haystack); i++ {
		if table[haystack[i]] {
			return i
		}
	}
	return -1
}
