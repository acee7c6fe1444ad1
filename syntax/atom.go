// Package syntax parses patterns written in the DECUS grep dialect into a flat
// sequence of single-byte atoms.
//
// The dialect has no grouping and no alternation, so a compiled pattern is
// never a tree: it is an ordered list of atoms, each matching exactly one
// byte, each carrying its own quantifier, plus two anchor flags.
//
// Syntax summary:
//
//	x       literal byte (case is ignored)
//	\x      x taken literally, bypassing any special meaning
//	.       any byte except new-line
//	:a      alphabetic byte        :d  digit
//	:n      alphanumeric byte      :   (colon space) space or control byte
//	[abc]   any byte in the set, ranges allowed as in [a-z]
//	[^abc]  any byte not in the set (and not new-line)
//	^       at the start of the pattern: beginning of line
//	$       at the end of the pattern: end of line
//	*       after an atom: zero or more
//	+       after an atom: one or more
//	-       after an atom: zero or one
//
// Upper- and lower-case are always ignored: literals and set members are
// folded to lower case at parse time, and lines are folded once before they
// are matched (see Fold).
package syntax

import (
	"strconv"
	"strings"
)

// Kind identifies what an Atom matches.
type Kind uint8

const (
	// KindLiteral matches a single folded byte.
	KindLiteral Kind = iota
	// KindAny matches any byte except the line terminator.
	KindAny
	// KindClass matches one of the built-in classes (see Class).
	KindClass
	// KindSet matches a bracket set, possibly negated.
	KindSet
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindAny:
		return "any"
	case KindClass:
		return "class"
	case KindSet:
		return "set"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Class is a built-in character class selected with a ':' token.
type Class uint8

const (
	// ClassAlpha is ":a", the letters a-z (after folding).
	ClassAlpha Class = iota
	// ClassDigit is ":d", the digits 0-9.
	ClassDigit
	// ClassAlnum is ":n", letters and digits.
	ClassAlnum
	// ClassSpace is ": ", space and the control bytes 0x01-0x1f.
	ClassSpace
)

// Token returns the two-byte pattern token selecting the class.
func (c Class) Token() string {
	switch c {
	case ClassAlpha:
		return ":a"
	case ClassDigit:
		return ":d"
	case ClassAlnum:
		return ":n"
	case ClassSpace:
		return ": "
	}
	return ":?"
}

// Contains reports whether the folded byte b belongs to the class.
func (c Class) Contains(b byte) bool {
	switch c {
	case ClassAlpha:
		return b >= 'a' && b <= 'z'
	case ClassDigit:
		return b >= '0' && b <= '9'
	case ClassAlnum:
		return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
	case ClassSpace:
		return b >= 0x01 && b <= ' '
	}
	return false
}

// Quant is the repetition attached to an atom.
type Quant uint8

const (
	// QuantOne requires exactly one byte.
	QuantOne Quant = iota
	// QuantStar is '*': zero or more.
	QuantStar
	// QuantPlus is '+': one or more.
	QuantPlus
	// QuantOptional is '-': zero or one.
	QuantOptional
)

// Min returns the minimum number of bytes the quantifier must consume.
func (q Quant) Min() int {
	if q == QuantOne || q == QuantPlus {
		return 1
	}
	return 0
}

// Repeats reports whether the quantifier allows more than one byte.
func (q Quant) Repeats() bool {
	return q == QuantStar || q == QuantPlus
}

// Suffix returns the pattern character for the quantifier, or "" for QuantOne.
func (q Quant) Suffix() string {
	switch q {
	case QuantStar:
		return "*"
	case QuantPlus:
		return "+"
	case QuantOptional:
		return "-"
	}
	return ""
}

// Newline is the line terminator byte. AnyChar and negated sets never
// match it.
const Newline = '\n'

// ByteSet is a 256-bit membership table over folded bytes.
type ByteSet [4]uint64

// Add inserts b.
func (s *ByteSet) Add(b byte) {
	s[b>>6] |= 1 << (b & 63)
}

// AddRange inserts every byte in [lo, hi]. An inverted range adds nothing.
func (s *ByteSet) AddRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		s.Add(byte(c))
	}
}

// Contains reports whether b is a member.
func (s *ByteSet) Contains(b byte) bool {
	return s[b>>6]&(1<<(b&63)) != 0
}

// Len returns the number of members.
func (s *ByteSet) Len() int {
	n := 0
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			n++
		}
	}
	return n
}

// Atom is one element of a compiled pattern. It always matches exactly one
// byte of a folded line; Quant says how many times.
type Atom struct {
	Kind  Kind
	Quant Quant

	// Byte is the folded byte for KindLiteral.
	Byte byte

	// Class is the class for KindClass.
	Class Class

	// Set holds the members for KindSet; Negate inverts it.
	Set    *ByteSet
	Negate bool

	// setSource keeps the bracket body as written (after folding) so String
	// can reproduce ranges instead of expanding them.
	setSource string
}

// Matches reports whether the folded byte b satisfies the atom, ignoring its
// quantifier.
func (a *Atom) Matches(b byte) bool {
	switch a.Kind {
	case KindLiteral:
		return b == a.Byte
	case KindAny:
		return b != Newline
	case KindClass:
		return a.Class.Contains(b)
	case KindSet:
		if a.Negate {
			return b != Newline && !a.Set.Contains(b)
		}
		return a.Set.Contains(b)
	}
	return false
}

// Table fills t with every byte the atom matches.
func (a *Atom) Table(t *[256]bool) {
	for c := 0; c < 256; c++ {
		t[c] = a.Matches(byte(c))
	}
}

// String renders the atom back into pattern syntax.
func (a *Atom) String() string {
	var b strings.Builder
	switch a.Kind {
	case KindLiteral:
		if isSpecial(a.Byte) {
			b.WriteByte('\\')
		}
		b.WriteByte(a.Byte)
	case KindAny:
		b.WriteByte('.')
	case KindClass:
		b.WriteString(a.Class.Token())
	case KindSet:
		b.WriteByte('[')
		if a.Negate {
			b.WriteByte('^')
		}
		b.WriteString(a.setSource)
		b.WriteByte(']')
	}
	b.WriteString(a.Quant.Suffix())
	return b.String()
}

// isSpecial reports whether c needs an escape to be read back as a literal.
// '^' and '$' are only special at the ends of a pattern but are escaped
// everywhere for simplicity.
func isSpecial(c byte) bool {
	switch c {
	case '\\', '.', ':', '[', '*', '+', '-', '^', '$':
		return true
	}
	return false
}
