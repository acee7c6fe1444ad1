// Package backtrack implements the match engine: a greedy backtracking search
// of a compiled syntax.Pattern against one folded line.
//
// The search is depth first and prefers the longest repetition at every
// quantified atom, shrinking it one byte at a time when the rest of the
// pattern fails. Choice points live on an explicit stack rather than the Go
// call stack, so pathological patterns cannot exhaust goroutine stack space.
//
// A visited bit vector over (atom, position) pairs records states already
// shown to fail. Because the outcome of matching atoms[i:] from a position
// never depends on how that position was reached, pruning them leaves the
// answer unchanged while bounding the work to O(atoms * positions) state
// entries per line.
package backtrack

import (
	"github.com/coregx/legrep/internal/conv"
	"github.com/coregx/legrep/syntax"
)

// DefaultMaxVisitedBits caps the visited vector at 256KB per search state.
// Lines whose atoms*(len+1) product exceeds it are searched without
// pruning.
const DefaultMaxVisitedBits = 256 * 1024 * 8

// Candidates narrows the start offsets the engine tries. Find returns the
// first offset >= start where a match could begin, or -1.
//
// prefilter.Prefilter satisfies this interface.
type Candidates interface {
	Find(haystack []byte, start int) int
}

// Engine matches one compiled pattern. It holds no mutable state and is safe
// for concurrent use; every search brings its own *State.
type Engine struct {
	pat            *syntax.Pattern
	minLen         int
	maxVisitedBits int
}

// New returns an engine for p with the default visited-vector cap.
func New(p *syntax.Pattern) *Engine {
	return NewWithLimit(p, DefaultMaxVisitedBits)
}

// NewWithLimit returns an engine whose visited vector may use at most
// maxVisitedBits bits. Zero disables pruning entirely.
func NewWithLimit(p *syntax.Pattern, maxVisitedBits int) *Engine {
	return &Engine{
		pat:            p,
		minLen:         p.MinLen(),
		maxVisitedBits: maxVisitedBits,
	}
}

// Pattern returns the compiled pattern the engine runs.
func (e *Engine) Pattern() *syntax.Pattern {
	return e.pat
}

// IsMatch reports whether the pattern matches the folded line anywhere.
// An empty line never matches.
func (e *Engine) IsMatch(st *State, haystack []byte) bool {
	return e.Search(st, haystack, nil)
}

// Search is IsMatch restricted to start offsets produced by cands. A nil
// cands tries every offset. cands must never skip an offset where a match
// can begin.
func (e *Engine) Search(st *State, haystack []byte, cands Candidates) bool {
	if len(haystack) == 0 || len(haystack) < e.minLen {
		return false
	}
	e.reset(st, len(haystack))

	if e.pat.AnchorStart {
		return e.run(st, haystack, 0)
	}

	// No match can start where fewer than minLen bytes remain.
	last := len(haystack) - e.minLen
	for start := 0; start <= last; start++ {
		if cands != nil {
			start = cands.Find(haystack, start)
			if start < 0 || start > last {
				return false
			}
		}
		if e.run(st, haystack, start) {
			return true
		}
	}
	return false
}

// MatchAt reports whether the pattern matches the folded line starting
// exactly at offset start, ignoring AnchorStart.
func (e *Engine) MatchAt(st *State, haystack []byte, start int) bool {
	if len(haystack) == 0 || start < 0 || start > len(haystack) {
		return false
	}
	e.reset(st, len(haystack))
	return e.run(st, haystack, start)
}

func (e *Engine) reset(st *State, haystackLen int) {
	bits := len(e.pat.Atoms) * (haystackLen + 1)
	if e.maxVisitedBits <= 0 || bits > e.maxVisitedBits {
		st.memo = false
		return
	}
	st.memo = true
	st.stride = haystackLen + 1
	words := (bits + 63) / 64
	if cap(st.visited) >= words {
		st.visited = st.visited[:words]
		clear(st.visited)
	} else {
		st.visited = make([]uint64, words)
	}
}

// run attempts a match beginning at start.
func (e *Engine) run(st *State, haystack []byte, start int) bool {
	st.stack = st.stack[:0]
	i, pos := 0, start
	for {
		if e.advance(st, haystack, i, pos) {
			return true
		}

		// Resume from the most recent choice point with one byte less.
		n := len(st.stack)
		if n == 0 {
			return false
		}
		f := &st.stack[n-1]
		i = int(f.atom) + 1
		pos = int(f.pos) + int(f.count)
		if f.count == f.min {
			st.stack = st.stack[:n-1]
		} else {
			f.count--
		}
	}
}

// advance walks forward from atom i at pos, taking the greedy choice at
// every quantifier and pushing the alternatives. It returns true when the
// pattern is exhausted in an accepting position.
func (e *Engine) advance(st *State, haystack []byte, i, pos int) bool {
	atoms := e.pat.Atoms
	for {
		if i == len(atoms) {
			return !e.pat.AnchorEnd || pos == len(haystack)
		}
		if st.memo && !st.visit(i, pos) {
			return false
		}

		a := &atoms[i]
		switch a.Quant {
		case syntax.QuantOne:
			if pos >= len(haystack) || !a.Matches(haystack[pos]) {
				return false
			}
			pos++

		case syntax.QuantOptional:
			if pos < len(haystack) && a.Matches(haystack[pos]) {
				st.push(i, pos, 0, 0)
				pos++
			}

		default:
			run := 0
			for pos+run < len(haystack) && a.Matches(haystack[pos+run]) {
				run++
			}
			lo := a.Quant.Min()
			if run < lo {
				return false
			}
			if run > lo {
				st.push(i, pos, run-1, lo)
			}
			pos += run
		}
		i++
	}
}

// IsMatch folds line and reports whether p matches it, using a throwaway
// engine and state. Callers matching many lines should keep an Engine and
// reuse States.
func IsMatch(p *syntax.Pattern, line []byte) bool {
	st := NewState()
	return New(p).IsMatch(st, syntax.FoldInto(nil, line))
}

// frame is a pending choice point: atom `atom` started at `pos` and may
// still be retried consuming `count` bytes, down to `min`.
type frame struct {
	atom  uint32
	pos   uint32
	count uint32
	min   uint32
}

// State is the mutable part of a search. It is not safe for concurrent use;
// give each goroutine its own or draw them from a sync.Pool.
type State struct {
	stack   []frame
	visited []uint64
	stride  int
	memo    bool
}

// NewState returns an empty search state.
func NewState() *State {
	return &State{stack: make([]frame, 0, 16)}
}

func (st *State) push(atom, pos, count, lo int) {
	st.stack = append(st.stack, frame{
		atom:  conv.IntToUint32(atom),
		pos:   conv.IntToUint32(pos),
		count: conv.IntToUint32(count),
		min:   conv.IntToUint32(lo),
	})
}

// visit marks (atom, pos) and reports whether it was unmarked.
func (st *State) visit(atom, pos int) bool {
	idx := atom*st.stride + pos
	word, bit := idx/64, uint64(1)<<(idx%64)
	if st.visited[word]&bit != 0 {
		return false
	}
	st.visited[word] |= bit
	return true
}
