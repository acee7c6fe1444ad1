package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack. An empty needle matches at 0,
// as with bytes.Index.
//
// Algorithm:
//  1. Pick the two rarest needle bytes with SelectRareBytes
//  2. Use Memchr to jump between occurrences of the rarest one
//  3. Reject a candidate cheaply on the second rare byte
//  4. Verify the whole needle
//
// Example:
//
//	pos := simd.Memmem([]byte("hello world"), []byte("world"))
//	// pos == 6
func Memmem(haystack, needle []byte) int {
	needleLen := len(needle)
	haystackLen := len(haystack)

	if needleLen == 0 {
		return 0
	}
	if haystackLen == 0 || needleLen > haystackLen {
		return -1
	}
	if needleLen == 1 {
		return Memchr(haystack, needle[0])
	}
	return NewFinder(needle).Index(haystack)
}

// Finder searches for one needle repeatedly. It precomputes the rare bytes
// so per-line calls skip the needle scan.
type Finder struct {
	needle []byte
	rare   RareByteInfo
}

// NewFinder returns a Finder for needle. The needle is not copied.
func NewFinder(needle []byte) *Finder {
	return &Finder{needle: needle, rare: SelectRareBytes(needle)}
}

// Needle returns the needle the Finder was built with.
func (f *Finder) Needle() []byte {
	return f.needle
}

// Index returns the first position of the needle in haystack, or -1.
func (f *Finder) Index(haystack []byte) int {
	needle := f.needle
	needleLen := len(needle)
	haystackLen := len(haystack)
	if needleLen == 0 {
		return 0
	}
	if needleLen > haystackLen {
		return -1
	}

	r := f.rare
	// The rare byte at Index1 can only sit in [Index1, last+Index1].
	last := haystackLen - needleLen
	searchStart := r.Index1
	searchEnd := last + r.Index1 + 1
	for searchStart < searchEnd {
		off := Memchr(haystack[searchStart:searchEnd], r.Byte1)
		if off < 0 {
			return -1
		}
		candidate := searchStart + off
		start := candidate - r.Index1
		if haystack[start+r.Index2] == r.Byte2 &&
			bytes.Equal(haystack[start:start+needleLen], needle) {
			return start
		}
		searchStart = candidate + 1
	}
	return -1
}
