package legrep

import (
	"sync"

	"github.com/coregx/legrep/backtrack"
	"github.com/coregx/legrep/prefilter"
)

// searchState holds per-search mutable state. It is obtained from a
// sync.Pool so one compiled Regex can serve many goroutines.
type searchState struct {
	// fold receives the lower-cased copy of the line.
	fold []byte

	bt *backtrack.State

	// required tracks the required-literal check for the lines this state
	// has seen; nil when the pattern has no required literal.
	required *prefilter.Tracker
}

// searchStatePool manages searchState reuse for one Regex.
type searchStatePool struct {
	pool sync.Pool
}

// newSearchStatePool creates a pool whose states track required, which may
// be nil.
func newSearchStatePool(required prefilter.Prefilter) *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return &searchState{
				fold:     make([]byte, 0, 256),
				bt:       backtrack.NewState(),
				required: prefilter.NewTracker(required),
			}
		},
	}
	return p
}

func (p *searchStatePool) get() *searchState {
	return p.pool.Get().(*searchState)
}

// put returns a state to the pool. Very long lines leave large buffers
// behind; those are dropped rather than pinned in the pool.
func (p *searchStatePool) put(st *searchState) {
	if st == nil {
		return
	}
	if cap(st.fold) > 1<<20 {
		st.fold = make([]byte, 0, 256)
	}
	p.pool.Put(st)
}
