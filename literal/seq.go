// Package literal provides types and operations for representing literal
// byte sequences extracted from compiled patterns.
//
// The primary use case is prefilter optimization: a pattern such as
// "err:d+ at" can only match lines containing "err" and " at", so a fast
// substring scan rejects most lines before the backtracking engine runs.
//
// Key concepts:
//   - A Literal is a concrete byte sequence every match must contain
//   - A Seq is a set of alternative literals (prefix bytes, or one required
//     literal per member of a pattern set)
//   - Minimize drops literals that are implied by shorter ones
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a folded byte sequence extracted from a pattern.
// The Complete flag indicates whether finding the literal is sufficient for
// a match (true) or only necessary (false).
//
// Example:
//   - Pattern "hello"      → Literal{[]byte("hello"), true}
//   - Pattern "hello:d+"   → Literal{[]byte("hello"), false}
//   - Pattern "^hello"     → Literal{[]byte("hello"), false} (anchored)
type Literal struct {
	// Bytes contains the literal byte sequence, already case folded.
	Bytes []byte

	// Complete indicates whether the literal represents the entire pattern.
	// If true, containing this literal is sufficient for a match.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
//
// Example:
//
//	lit := literal.NewLiteral([]byte("hello"), true)
//	fmt.Printf("%s (complete=%v)\n", lit.Bytes, lit.Complete)
//	// Output: hello (complete=true)
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq represents a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), false),
//	    literal.NewLiteral([]byte("bar"), false),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Bytes returns the byte slices of every literal, in order.
// The slices alias the sequence's storage.
func (s *Seq) Bytes() [][]byte {
	if s.IsEmpty() {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// Minimize removes redundant literals from the sequence.
//
// For substring matching, a literal L is redundant if a shorter kept literal
// S occurs anywhere inside L: every line containing L also contains S, so
// searching for S alone finds the same candidate lines. Empty literals match
// everything and make the whole sequence useless as a filter; they are kept
// so callers can detect that case with HasEmpty.
//
// Algorithm:
//  1. Sort literals by length (shortest first), stable for equal lengths
//  2. Keep a literal only if no already-kept literal is a substring of it
//
// Time complexity: O(n² * m) where n = number of literals, m = average literal length
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("oba"), false),
//	    literal.NewLiteral([]byte("foobar"), false),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "oba" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.Contains(current.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}

	s.literals = kept
}

// HasEmpty reports whether any literal in the sequence is empty.
func (s *Seq) HasEmpty() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		if len(lit.Bytes) < n {
			n = len(lit.Bytes)
		}
	}
	return n
}
