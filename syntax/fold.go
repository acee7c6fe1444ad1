package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// foldTable maps every byte to its lower-case form. Only ASCII letters
// change; the dialect has no notion of Unicode case.
var foldTable = func() (t [256]byte) {
	for i := range t {
		c := byte(i)
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		t[i] = c
	}
	return t
}()

// Fold returns the canonical (lower) case of b.
func Fold(b byte) byte {
	return foldTable[b]
}

// FoldInto appends the folded form of src to dst[:0] and returns it.
// Callers keep dst around between lines to avoid allocating per line.
func FoldInto(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i, c := range src {
		dst[i] = foldTable[c]
	}
	return dst
}

// Dump writes a human-readable listing of the compiled pattern, one atom per
// line.
func (p *Pattern) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "pattern %s\n", quote(p.Expr)); err != nil {
		return err
	}
	if p.AnchorStart {
		if _, err := fmt.Fprintln(w, "  bol"); err != nil {
			return err
		}
	}
	for i := range p.Atoms {
		a := &p.Atoms[i]
		var desc string
		switch a.Kind {
		case KindLiteral:
			desc = "literal " + strconv.QuoteRune(rune(a.Byte))
		case KindAny:
			desc = "any"
		case KindClass:
			desc = "class " + strconv.Quote(a.Class.Token())
		case KindSet:
			desc = fmt.Sprintf("set %s (%d members)", quote(a.String()), a.Set.Len())
			if a.Negate {
				desc = "n" + desc
			}
		}
		if _, err := fmt.Fprintf(w, "  %-3d %s %s\n", i, quantName(a.Quant), desc); err != nil {
			return err
		}
	}
	if p.AnchorEnd {
		if _, err := fmt.Fprintln(w, "  eol"); err != nil {
			return err
		}
	}
	return nil
}

func quantName(q Quant) string {
	switch q {
	case QuantStar:
		return "star "
	case QuantPlus:
		return "plus "
	case QuantOptional:
		return "minus"
	}
	return "one  "
}

func quote(s string) string {
	return strconv.Quote(s)
}
