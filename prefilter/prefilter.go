// Package prefilter provides fast candidate filtering for pattern search
// using extracted literals.
//
// A prefilter quickly rejects lines, or start offsets within a line, that
// cannot possibly begin a match. The backtracking engine then only runs at
// the surviving offsets. Prefilters never change an answer: a reported
// candidate is verified unless the prefilter is complete.
//
// The package selects a strategy from the extracted literals:
//   - Single byte → memchr
//   - Two or three bytes → memchr2 / memchr3
//   - Single substring → memmem with rare-byte anchoring
//   - Many single bytes, or a large leading class → byte table scan
//   - Many substrings → Aho-Corasick automaton
//
// Example usage:
//
//	p := syntax.MustParse("warn:d+")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(p)
//	pf := prefilter.NewBuilder(prefixes, nil).Build()
//	pos := pf.Find([]byte("no warn42"), 0)
//	// pos == 3
package prefilter

import (
	"github.com/coregx/legrep/literal"
	"github.com/coregx/legrep/simd"
)

// Prefilter finds candidate match positions before the full engine runs.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1 if no candidate exists. start must be in [0, len(haystack)].
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is already a match, so the
	// engine can skip verification.
	IsComplete() bool

	// LiteralLen returns the length of the literal when IsComplete is true,
	// and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the number of bytes of heap memory the prefilter
	// holds.
	HeapBytes() int
}

// Builder constructs the best prefilter from extracted literals.
//
// Selection strategy (in order of preference):
//  1. Single byte literal → memchr
//  2. Single substring literal → memmem
//  3. Two or three single bytes → memchr2 / memchr3
//  4. More single bytes → byte table
//  5. Several substrings → Aho-Corasick
//  6. No usable literals → the fallback table, if one was given
//  7. Otherwise → nil (no prefilter)
type Builder struct {
	prefixes *literal.Seq
	table    *[256]bool
}

// NewBuilder creates a new prefilter builder.
//
// prefixes are literals one of which begins every match (from
// ExtractPrefixes). table, when non-nil, holds every byte a match can begin
// with (from StartTable) and is used when prefixes are empty.
func NewBuilder(prefixes *literal.Seq, table *[256]bool) *Builder {
	return &Builder{
		prefixes: prefixes,
		table:    table,
	}
}

// Build constructs the best prefilter for the given literals, or returns nil
// when no prefilter would help.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if !seq.IsEmpty() && !seq.HasEmpty() {
		if seq.Len() == 1 {
			lit := seq.Get(0)
			if len(lit.Bytes) == 1 {
				return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
			}
			return newMemmemPrefilter(lit.Bytes, lit.Complete)
		}

		if seq.MinLen() == 1 && allSingleBytes(seq) {
			switch seq.Len() {
			case 2:
				return newMemchr2Prefilter(seq.Get(0).Bytes[0], seq.Get(1).Bytes[0])
			case 3:
				return newMemchr3Prefilter(seq.Get(0).Bytes[0], seq.Get(1).Bytes[0], seq.Get(2).Bytes[0])
			}
			var table [256]bool
			for i := 0; i < seq.Len(); i++ {
				table[seq.Get(i).Bytes[0]] = true
			}
			return newTablePrefilter(&table)
		}

		if ac, err := NewAhoCorasick(seq); err == nil {
			return ac
		}
	}

	if b.table != nil && selective(b.table) {
		return newTablePrefilter(b.table)
	}
	return nil
}

// allSingleBytes reports whether every literal is exactly one byte.
func allSingleBytes(seq *literal.Seq) bool {
	for i := 0; i < seq.Len(); i++ {
		if len(seq.Get(i).Bytes) != 1 {
			return false
		}
	}
	return true
}

// selective reports whether a table rejects enough bytes to be worth a scan.
// Tables that admit nearly everything (".", negated sets) are not.
func selective(table *[256]bool) bool {
	n := 0
	for _, ok := range table {
		if ok {
			n++
		}
	}
	return n > 0 && n <= 128
}

// memchrPrefilter wraps simd.Memchr as a Prefilter.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memchr2Prefilter searches for either of two start bytes.
type memchr2Prefilter struct {
	b1, b2 byte
}

func newMemchr2Prefilter(b1, b2 byte) Prefilter {
	return &memchr2Prefilter{b1: b1, b2: b2}
}

// Find implements Prefilter.Find using simd.Memchr2.
func (p *memchr2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.b1, p.b2)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchr2Prefilter) IsComplete() bool { return false }

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchr2Prefilter) LiteralLen() int { return 0 }

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchr2Prefilter) HeapBytes() int { return 0 }

// memchr3Prefilter searches for any of three start bytes.
type memchr3Prefilter struct {
	b1, b2, b3 byte
}

func newMemchr3Prefilter(b1, b2, b3 byte) Prefilter {
	return &memchr3Prefilter{b1: b1, b2: b2, b3: b3}
}

// Find implements Prefilter.Find using simd.Memchr3.
func (p *memchr3Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr3(haystack[start:], p.b1, p.b2, p.b3)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchr3Prefilter) IsComplete() bool { return false }

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchr3Prefilter) LiteralLen() int { return 0 }

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchr3Prefilter) HeapBytes() int { return 0 }

// tablePrefilter scans for any byte a match can begin with, as given by a
// leading class or set.
type tablePrefilter struct {
	table [256]bool
}

func newTablePrefilter(table *[256]bool) Prefilter {
	return &tablePrefilter{table: *table}
}

// Find implements Prefilter.Find using simd.MemchrInTable.
func (p *tablePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.MemchrInTable(haystack[start:], &p.table)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *tablePrefilter) IsComplete() bool { return false }

// LiteralLen implements Prefilter.LiteralLen.
func (p *tablePrefilter) LiteralLen() int { return 0 }

// HeapBytes implements Prefilter.HeapBytes.
func (p *tablePrefilter) HeapBytes() int { return 256 }

// memmemPrefilter searches for a single substring with a precomputed
// simd.Finder.
type memmemPrefilter struct {
	finder   *simd.Finder
	complete bool
}

// newMemmemPrefilter copies needle so the caller's buffer may be reused.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)

	return &memmemPrefilter{
		finder:   simd.NewFinder(needleCopy),
		complete: complete,
	}
}

// NewMemmem returns a prefilter that reports occurrences of needle. It is
// used directly for the required-literal check, where the literal need not
// begin the match.
func NewMemmem(needle []byte, complete bool) Prefilter {
	return newMemmemPrefilter(needle, complete)
}

// Find implements Prefilter.Find using simd.Finder.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := p.finder.Index(haystack[start:])
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.finder.Needle())
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.finder.Needle())
}
