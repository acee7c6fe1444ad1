package literal

import (
	"github.com/coregx/legrep/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  8,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiteralLen limits the length of the required literal. A prefix of a
	// required literal is itself required, so truncation only weakens the
	// filter. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits how many bytes a leading class or set may expand
	// to in ExtractPrefixes. Larger classes are reported through StartTable
	// instead. Default: 8.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiteralLen: 64,
		MaxClassSize:  8,
	}
}

// Extractor extracts literal information from compiled patterns.
//
// It analyzes the atom list of a syntax.Pattern and derives:
//   - Prefixes: literals one of which must begin every match
//   - Required: one literal that must occur in every matching line
//   - StartTable: the set of bytes a match can begin with
//
// Example:
//
//	p := syntax.MustParse("hello.*world")
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes := extractor.ExtractPrefixes(p)
//	// prefixes = ["hello"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns literals one of which must begin every match.
//
// Rules, by the first atom:
//   - a run of One literals: that run, e.g. "abc:d" → ["abc"]
//   - a Plus literal: its byte, e.g. "a+b" → ["a"]
//   - a One or Plus class/set with at most MaxClassSize members: one
//     single-byte literal per member, e.g. "[xy]z" → ["x", "y"]
//   - anything else (Star, Optional, Any, large classes): no prefixes
//
// A prefix is marked Complete only when it spells the whole unanchored
// pattern. Returns an empty Seq when nothing can be extracted.
func (e *Extractor) ExtractPrefixes(p *syntax.Pattern) *Seq {
	if len(p.Atoms) == 0 {
		return NewSeq()
	}

	first := &p.Atoms[0]
	if first.Quant.Min() == 0 {
		return NewSeq()
	}

	if first.Kind == syntax.KindLiteral {
		run := make([]byte, 0, len(p.Atoms))
		for i := range p.Atoms {
			a := &p.Atoms[i]
			if a.Kind != syntax.KindLiteral {
				break
			}
			if e.config.MaxLiteralLen > 0 && len(run) == e.config.MaxLiteralLen {
				break
			}
			if a.Quant == syntax.QuantOne {
				run = append(run, a.Byte)
				continue
			}
			if a.Quant == syntax.QuantPlus {
				run = append(run, a.Byte)
			}
			break
		}
		complete := len(run) == len(p.Atoms) && isPlainRun(p) && !p.AnchorStart && !p.AnchorEnd
		return NewSeq(NewLiteral(run, complete))
	}

	var table [256]bool
	first.Table(&table)
	var lits []Literal
	for b := 0; b < 256; b++ {
		if !table[b] {
			continue
		}
		if len(lits) == e.config.MaxClassSize {
			return NewSeq()
		}
		lits = append(lits, NewLiteral([]byte{byte(b)}, false))
	}
	return NewSeq(lits...)
}

// ExtractRequired returns the longest literal that every matching line must
// contain, or an empty literal when the pattern requires none.
//
// Consecutive One literals form a run. A Plus literal ends the current run
// (its first repetition is still required) and starts the next one with
// its last repetition, so "ab+c" yields the runs "ab" and "bc". Any other
// atom ends the run.
//
// The result is Complete when the pattern is unanchored and consists only
// of One literals: containing the literal is then the same as matching.
func (e *Extractor) ExtractRequired(p *syntax.Pattern) Literal {
	var best, run []byte
	flush := func() {
		if len(run) > len(best) {
			best = append(best[:0], run...)
		}
		run = run[:0]
	}

	for i := range p.Atoms {
		a := &p.Atoms[i]
		switch {
		case a.Kind == syntax.KindLiteral && a.Quant == syntax.QuantOne:
			run = append(run, a.Byte)
		case a.Kind == syntax.KindLiteral && a.Quant == syntax.QuantPlus:
			run = append(run, a.Byte)
			flush()
			run = append(run, a.Byte)
		default:
			flush()
		}
	}
	flush()

	complete := len(p.Atoms) > 0 && len(best) == len(p.Atoms) && isPlainRun(p) &&
		!p.AnchorStart && !p.AnchorEnd
	if e.config.MaxLiteralLen > 0 && len(best) > e.config.MaxLiteralLen {
		best = best[:e.config.MaxLiteralLen]
		complete = false
	}
	if best == nil {
		best = []byte{}
	}
	return NewLiteral(best, complete)
}

// StartTable reports the bytes a match can begin with. ok is false when
// the first atom may match zero bytes, in which case a match can begin
// anywhere.
func (e *Extractor) StartTable(p *syntax.Pattern) (table [256]bool, ok bool) {
	if len(p.Atoms) == 0 || p.Atoms[0].Quant.Min() == 0 {
		return table, false
	}
	p.Atoms[0].Table(&table)
	return table, true
}

// isPlainRun reports whether every atom is a One literal.
func isPlainRun(p *syntax.Pattern) bool {
	for i := range p.Atoms {
		if p.Atoms[i].Kind != syntax.KindLiteral || p.Atoms[i].Quant != syntax.QuantOne {
			return false
		}
	}
	return true
}
