// Package legrep implements the pattern dialect of the DECUS grep utility:
// a small, case-insensitive, line-oriented matcher.
//
// The dialect has no alternation, grouping or backreferences. Every atom
// matches exactly one byte and may carry one quantifier:
//
//	x       literal byte (letters match either case)
//	\x      x taken literally
//	.       any byte except newline
//	:a :d   letter, digit
//	:n      letter or digit
//	": "    space or any control byte (0x01-0x20)
//	[...]   set, with ranges a-z; [^...] negates
//	*  +  - zero or more, one or more, zero or one of the previous atom
//	^ $     start and end of line, only as the first or last byte
//
// Basic usage:
//
//	re, err := legrep.Compile("fo*bar$")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("FOOOBAR") {
//	    fmt.Println("matched!")
//	}
//
// Matching runs a greedy backtracking engine with an explicit stack and a
// visited bit vector, so no pattern can recurse deeply or revisit a failed
// state. Literal prefilters reject most non-matching lines before the
// engine runs.
package legrep

import (
	"github.com/coregx/legrep/backtrack"
	"github.com/coregx/legrep/literal"
	"github.com/coregx/legrep/prefilter"
	"github.com/coregx/legrep/syntax"
)

// Regex represents a compiled pattern.
//
// A Regex is safe to use concurrently from multiple goroutines; mutable
// search state is drawn from an internal pool.
//
// Example:
//
//	re := legrep.MustCompile("hello")
//	if re.Match([]byte("Hello world")) {
//	    println("matched!")
//	}
type Regex struct {
	pattern *syntax.Pattern
	engine  *backtrack.Engine
	minLen  int

	// start narrows the offsets the engine tries. Nil when the pattern is
	// anchored or its first atom can match nothing.
	start prefilter.Prefilter

	// required rejects lines lacking a literal every match contains.
	required prefilter.Prefilter

	// complete answers the whole match when the pattern is one plain
	// unanchored literal.
	complete prefilter.Prefilter

	pool *searchStatePool
}

// Compile compiles a pattern with the default configuration.
//
// Example:
//
//	re, err := legrep.Compile(":d+-:d+")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(expr string) (*Regex, error) {
	return CompileWithConfig(expr, DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails.
//
// Example:
//
//	var errLine = legrep.MustCompile("^error:")
func MustCompile(expr string) *Regex {
	re, err := Compile(expr)
	if err != nil {
		panic("legrep: Compile(`" + expr + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Compilation errors are *syntax.Error values; errors.Is matches them
// against the syntax.ErrorCode constants. An invalid config yields a
// *ConfigError.
func CompileWithConfig(expr string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p, err := syntax.Parse(expr, config.MaxAtoms)
	if err != nil {
		return nil, err
	}
	return newRegex(p, config), nil
}

func newRegex(p *syntax.Pattern, config Config) *Regex {
	r := &Regex{
		pattern: p,
		engine:  backtrack.NewWithLimit(p, config.MaxVisitedBits),
		minLen:  p.MinLen(),
	}

	if config.EnablePrefilter {
		ex := literal.New(literal.ExtractorConfig{
			MaxLiteralLen: config.MaxLiteralLen,
			MaxClassSize:  literal.DefaultConfig().MaxClassSize,
		})

		req := ex.ExtractRequired(p)
		switch {
		case req.Complete:
			r.complete = prefilter.NewMemmem(req.Bytes, true)
		case len(req.Bytes) > 0:
			r.required = prefilter.NewMemmem(req.Bytes, false)
		}

		if !p.AnchorStart && r.complete == nil {
			var tp *[256]bool
			if table, ok := ex.StartTable(p); ok {
				tp = &table
			}
			r.start = prefilter.NewBuilder(ex.ExtractPrefixes(p), tp).Build()
		}
	}

	r.pool = newSearchStatePool(r.required)
	return r
}

// QuoteMeta returns a pattern that matches the literal text s (ignoring
// case, like every pattern).
//
// Example:
//
//	escaped := legrep.QuoteMeta("a.b*c")
//	// escaped = `a\.b\*c`
func QuoteMeta(s string) string {
	const special = `\.:[*+-^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match reports whether the line b contains a match of the pattern. b is one
// line without its terminator; an empty line never matches.
func (r *Regex) Match(b []byte) bool {
	if len(b) == 0 || len(b) < r.minLen {
		return false
	}
	st := r.pool.get()
	defer r.pool.put(st)

	st.fold = syntax.FoldInto(st.fold, b)
	return r.matchFolded(st, st.fold)
}

// MatchString reports whether the line s contains a match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// matchFolded runs the prefilters and the engine on an already folded line.
func (r *Regex) matchFolded(st *searchState, line []byte) bool {
	if len(line) == 0 || len(line) < r.minLen {
		return false
	}
	if r.complete != nil {
		return r.complete.Find(line, 0) >= 0
	}
	if st.required.Rejects(line) {
		return false
	}
	return r.engine.Search(st.bt, line, r.start)
}

// String returns the source text used to compile the pattern.
func (r *Regex) String() string {
	return r.pattern.Expr
}

// Pattern returns the compiled atom list. It must not be modified.
func (r *Regex) Pattern() *syntax.Pattern {
	return r.pattern
}
