package syntax

import "strings"

// Pattern is a compiled pattern: an ordered sequence of atoms plus the two
// anchor flags. A Pattern is immutable once Parse returns it and may be
// shared between goroutines.
type Pattern struct {
	// Expr is the source text.
	Expr string

	// Atoms in match order. May be empty.
	Atoms []Atom

	// AnchorStart is set by a leading '^'.
	AnchorStart bool

	// AnchorEnd is set by a trailing, unescaped '$'.
	AnchorEnd bool
}

// MinLen returns the minimum number of bytes a line needs for the pattern
// to match.
func (p *Pattern) MinLen() int {
	n := 0
	for i := range p.Atoms {
		n += p.Atoms[i].Quant.Min()
	}
	return n
}

// String renders the pattern in canonical form. Parsing the result yields a
// Pattern that matches exactly the same lines.
func (p *Pattern) String() string {
	var b strings.Builder
	if p.AnchorStart {
		b.WriteByte('^')
	}
	for i := range p.Atoms {
		b.WriteString(p.Atoms[i].String())
	}
	if p.AnchorEnd {
		b.WriteByte('$')
	}
	return b.String()
}

type parser struct {
	expr  string
	pos   int
	limit int
}

// Parse compiles expr into a Pattern. limit caps the number of atoms; zero
// means no limit.
//
// Parsing is a single left-to-right pass and fails on the first error; no
// partial Pattern is ever returned.
//
// Example:
//
//	p, err := syntax.Parse("^fo*:d$", 0)
//	// p.AnchorStart == true, p.AnchorEnd == true, len(p.Atoms) == 3
func Parse(expr string, limit int) (*Pattern, error) {
	ps := &parser{expr: expr, limit: limit}
	pat := &Pattern{Expr: expr}

	if strings.HasPrefix(expr, "^") {
		pat.AnchorStart = true
		ps.pos = 1
	}

	for !ps.eof() {
		c := ps.next()

		var atom Atom
		switch c {
		case '*', '+', '-':
			// Quantifiers that follow an atom are consumed together with it,
			// so reaching one here means nothing precedes it.
			return nil, ps.error(ErrDanglingQuantifier)
		case '$':
			if ps.eof() {
				pat.AnchorEnd = true
				continue
			}
			atom = Atom{Kind: KindLiteral, Byte: '$'}
		case '\\':
			if ps.eof() {
				return nil, ps.error(ErrTrailingEscape)
			}
			atom = Atom{Kind: KindLiteral, Byte: Fold(ps.next())}
		case '.':
			atom = Atom{Kind: KindAny}
		case ':':
			class, err := ps.class()
			if err != nil {
				return nil, err
			}
			atom = Atom{Kind: KindClass, Class: class}
		case '[':
			set, err := ps.set()
			if err != nil {
				return nil, err
			}
			atom = set
		default:
			atom = Atom{Kind: KindLiteral, Byte: Fold(c)}
		}

		if err := ps.quantifier(&atom); err != nil {
			return nil, err
		}
		if ps.limit > 0 && len(pat.Atoms) >= ps.limit {
			return nil, ps.error(ErrPatternTooComplex)
		}
		pat.Atoms = append(pat.Atoms, atom)
	}

	return pat, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level variables.
func MustParse(expr string) *Pattern {
	p, err := Parse(expr, 0)
	if err != nil {
		panic("syntax: Parse(" + quote(expr) + "): " + err.Error())
	}
	return p
}

func (ps *parser) eof() bool {
	return ps.pos >= len(ps.expr)
}

func (ps *parser) next() byte {
	c := ps.expr[ps.pos]
	ps.pos++
	return c
}

func (ps *parser) error(code ErrorCode) *Error {
	return &Error{Code: code, Expr: ps.expr, Offset: ps.pos}
}

// quantifier consumes at most one quantifier character after an atom.
func (ps *parser) quantifier(a *Atom) error {
	if ps.eof() {
		return nil
	}
	q, ok := quantOf(ps.expr[ps.pos])
	if !ok {
		return nil
	}
	ps.pos++
	a.Quant = q
	if !ps.eof() {
		if _, again := quantOf(ps.expr[ps.pos]); again {
			ps.pos++
			return ps.error(ErrDoubleQuantifier)
		}
	}
	return nil
}

func quantOf(c byte) (Quant, bool) {
	switch c {
	case '*':
		return QuantStar, true
	case '+':
		return QuantPlus, true
	case '-':
		return QuantOptional, true
	}
	return QuantOne, false
}

// class parses the byte after ':'.
func (ps *parser) class() (Class, error) {
	if ps.eof() {
		return 0, ps.error(ErrUnknownClass)
	}
	switch Fold(ps.next()) {
	case 'a':
		return ClassAlpha, nil
	case 'd':
		return ClassDigit, nil
	case 'n':
		return ClassAlnum, nil
	case ' ':
		return ClassSpace, nil
	}
	return 0, ps.error(ErrUnknownClass)
}

// set parses a bracket set; the opening '[' is already consumed.
//
// A '-' forms a range when it follows a single member and is not followed
// by ']'. A leading or trailing '-', or one right after a range, is a
// member. '\' takes the next byte as a member, which is the only way to
// put ']' in a set.
func (ps *parser) set() (Atom, error) {
	atom := Atom{Kind: KindSet, Set: new(ByteSet)}
	if !ps.eof() && ps.expr[ps.pos] == '^' {
		atom.Negate = true
		ps.pos++
	}

	var (
		src     strings.Builder
		members int
		pending byte
		hasLo   bool
	)
	flush := func() {
		if hasLo {
			atom.Set.Add(pending)
			src.WriteString(escapeMember(pending, src.Len() == 0))
			hasLo = false
		}
	}

	for {
		if ps.eof() {
			return Atom{}, ps.error(ErrUnterminatedBracket)
		}
		c := ps.next()
		switch {
		case c == ']':
			flush()
			if members == 0 {
				return Atom{}, ps.error(ErrEmptyBracket)
			}
			atom.setSource = src.String()
			return atom, nil

		case c == '-' && hasLo && !ps.eof() && ps.expr[ps.pos] != ']':
			hi := ps.next()
			if hi == '\\' {
				if ps.eof() {
					return Atom{}, ps.error(ErrUnterminatedBracket)
				}
				hi = ps.next()
			}
			hi = Fold(hi)
			atom.Set.AddRange(pending, hi)
			src.WriteString(escapeMember(pending, src.Len() == 0))
			src.WriteByte('-')
			src.WriteString(escapeMember(hi, false))
			hasLo = false

		default:
			if c == '\\' {
				if ps.eof() {
					return Atom{}, ps.error(ErrUnterminatedBracket)
				}
				c = ps.next()
			}
			flush()
			pending, hasLo = Fold(c), true
			members++
		}
	}
}

// escapeMember renders a set member so that it reads back as a plain member.
func escapeMember(c byte, first bool) string {
	switch {
	case c == ']', c == '\\', c == '-', c == '^' && first:
		return "\\" + string(c)
	}
	return string(c)
}
