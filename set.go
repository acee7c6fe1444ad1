package legrep

import (
	"bytes"
	"errors"
	"slices"
	"sync"

	"github.com/coregx/legrep/internal/sparse"
	"github.com/coregx/legrep/literal"
	"github.com/coregx/legrep/prefilter"
	"github.com/coregx/legrep/syntax"
)

// ErrEmptySet is returned by CompileSet when given no patterns.
var ErrEmptySet = errors.New("legrep: empty pattern set")

// Set matches a line against several patterns at once, as with repeated
// -e options. A line matches the set when any member matches it.
//
// When every member requires some literal, an Aho-Corasick automaton over
// those literals runs first; only members whose literal occurs in the line
// are evaluated.
type Set struct {
	members []*Regex
	filter  *prefilter.AhoCorasick

	// owners maps each automaton literal to the members it stands for.
	owners map[string][]int

	scratch sync.Pool
}

// setScratch is the per-scan state of a Set.
type setScratch struct {
	fold  []byte
	cands *sparse.Set
}

// CompileSet compiles every expression with config. The first compilation
// error is returned unchanged, so callers can report the offending
// expression from the *syntax.Error.
func CompileSet(exprs []string, config Config) (*Set, error) {
	if len(exprs) == 0 {
		return nil, ErrEmptySet
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Set{members: make([]*Regex, 0, len(exprs))}
	for _, expr := range exprs {
		p, err := syntax.Parse(expr, config.MaxAtoms)
		if err != nil {
			return nil, err
		}
		s.members = append(s.members, newRegex(p, config))
	}

	if config.EnablePrefilter && len(exprs) > 1 {
		s.filter, s.owners = buildSetFilter(s.members, config)
	}
	n := len(s.members)
	s.scratch.New = func() any {
		return &setScratch{fold: make([]byte, 0, 256), cands: sparse.New(n)}
	}
	return s, nil
}

// buildSetFilter returns an automaton over the members' minimized required
// literals and, for each literal, the members whose own literal contains
// it. It returns nil if some member requires no literal.
func buildSetFilter(members []*Regex, config Config) (*prefilter.AhoCorasick, map[string][]int) {
	ex := literal.New(literal.ExtractorConfig{MaxLiteralLen: config.MaxLiteralLen})
	lits := make([]literal.Literal, 0, len(members))
	for _, m := range members {
		req := ex.ExtractRequired(m.pattern)
		if len(req.Bytes) == 0 {
			return nil, nil
		}
		lits = append(lits, req)
	}

	// Minimize reorders in place; lits keeps member order.
	seq := literal.NewSeq(slices.Clone(lits)...)
	seq.Minimize()
	ac, err := prefilter.NewAhoCorasick(seq)
	if err != nil {
		return nil, nil
	}

	owners := make(map[string][]int, seq.Len())
	for i, lit := range lits {
		for j := 0; j < seq.Len(); j++ {
			rep := seq.Get(j).Bytes
			if bytes.Contains(lit.Bytes, rep) {
				owners[string(rep)] = append(owners[string(rep)], i)
				break
			}
		}
	}
	return ac, owners
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.members)
}

// Regex returns the i'th compiled member.
func (s *Set) Regex(i int) *Regex {
	return s.members[i]
}

// Match reports whether any member matches the line.
func (s *Set) Match(line []byte) bool {
	matched := false
	s.scan(line, func(int) bool {
		matched = true
		return false
	})
	return matched
}

// MatchString reports whether any member matches the line s.
func (s *Set) MatchString(line string) bool {
	return s.Match([]byte(line))
}

// Which returns the indexes of every member that matches the line, in
// order, or nil if none does.
func (s *Set) Which(line []byte) []int {
	var which []int
	s.scan(line, func(i int) bool {
		which = append(which, i)
		return true
	})
	return which
}

// scan folds line once and calls yield with each matching member index,
// in order, until yield returns false.
func (s *Set) scan(line []byte, yield func(int) bool) {
	if len(line) == 0 {
		return
	}
	sc := s.scratch.Get().(*setScratch)
	defer s.scratch.Put(sc)

	sc.fold = syntax.FoldInto(sc.fold, line)
	folded := sc.fold

	if s.filter != nil {
		sc.cands.Clear()
		s.filter.Each(folded, func(lit []byte) {
			for _, i := range s.owners[string(lit)] {
				sc.cands.Insert(i)
			}
		})
		if sc.cands.Len() == 0 {
			return
		}
	}

	for i, m := range s.members {
		if s.filter != nil && !sc.cands.Contains(i) {
			continue
		}
		st := m.pool.get()
		ok := m.matchFolded(st, folded)
		m.pool.put(st)
		if ok && !yield(i) {
			return
		}
	}
}
