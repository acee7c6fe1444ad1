package prefilter

import (
	"errors"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/legrep/literal"
)

// errNoLiterals is returned by NewAhoCorasick for an empty sequence.
var errNoLiterals = errors.New("prefilter: no literals for aho-corasick")

// AhoCorasick searches for any of several substrings at once. Pattern sets
// use it to reject lines that contain none of their members' required
// literals.
type AhoCorasick struct {
	auto      *ahocorasick.Automaton
	complete  bool
	heapBytes int
}

// NewAhoCorasick builds an automaton over every literal in seq. It is
// complete only when every literal is complete.
func NewAhoCorasick(seq *literal.Seq) (*AhoCorasick, error) {
	if seq.IsEmpty() {
		return nil, errNoLiterals
	}

	builder := ahocorasick.NewBuilder()
	complete := true
	size := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		complete = complete && lit.Complete
		size += len(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &AhoCorasick{auto: auto, complete: complete, heapBytes: size}, nil
}

// Find implements Prefilter.Find and returns the start of the leftmost
// literal occurrence at or after start.
func (p *AhoCorasick) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsMatch reports whether haystack contains any of the literals.
func (p *AhoCorasick) IsMatch(haystack []byte) bool {
	return p.auto.IsMatch(haystack)
}

// Each calls fn with every literal occurrence in haystack, one per start
// position, left to right. When no literal contains another (as after
// literal.Seq.Minimize) every literal present is reported at least once.
func (p *AhoCorasick) Each(haystack []byte, fn func(lit []byte)) {
	for at := 0; at < len(haystack); {
		m := p.auto.Find(haystack, at)
		if m == nil {
			return
		}
		fn(haystack[m.Start:m.End])
		at = m.Start + 1
	}
}

// IsComplete implements Prefilter.IsComplete.
func (p *AhoCorasick) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen. Literal lengths vary, so it
// is always 0.
func (p *AhoCorasick) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes. It counts the literal bytes
// only; the automaton's own tables are not exposed.
func (p *AhoCorasick) HeapBytes() int {
	return p.heapBytes
}
