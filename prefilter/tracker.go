package prefilter

// Tracker wraps a line-level Prefilter with effectiveness tracking.
//
// A required-literal check costs one substring scan per line. It pays off
// only while it rejects lines; when the literal occurs in nearly every line
// the scan is wasted work ahead of the engine. The tracker counts checked
// and rejected lines and retires the prefilter once the reject ratio drops
// below a threshold.
//
// Algorithm:
//  1. Count checks (lines examined) and rejects (literal absent)
//  2. After the warmup period, every CheckInterval checks, compare the
//     reject ratio with MinEfficiency
//  3. Below the threshold, retire the prefilter
//  4. Once retired, Rejects always reports false until Reset
//
// A Tracker is not safe for concurrent use; keep one per search state.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(prefilter.NewMemmem([]byte("error"), false))
//	for _, line := range lines {
//	    if tracker.Rejects(line) {
//	        continue
//	    }
//	    // run the engine on line
//	}
type Tracker struct {
	inner Prefilter

	checks  uint64
	rejects uint64

	checkInterval  uint64
	minEfficiency  float64
	warmupPeriod   uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness (in lines).
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the minimum acceptable ratio of rejects/checks.
	// Default: 0.1 (10%)
	MinEfficiency float64

	// WarmupPeriod is the number of lines checked before the first
	// evaluation.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a new tracker for the given prefilter with default config.
//
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a new tracker with custom configuration.
//
// Returns nil if the inner prefilter is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	if config.CheckInterval == 0 {
		config.CheckInterval = 1
	}

	return &Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minEfficiency: config.MinEfficiency,
		warmupPeriod:  config.WarmupPeriod,
		active:        true,
	}
}

// Rejects reports whether the line certainly cannot match, because the
// inner prefilter finds no candidate in it. A retired tracker never
// rejects. A nil tracker never rejects either, so callers need no nil
// check.
func (t *Tracker) Rejects(line []byte) bool {
	if t == nil || !t.active {
		return false
	}

	t.checks++
	rejected := t.inner.Find(line, 0) < 0
	if rejected {
		t.rejects++
	}
	t.checkEffectiveness()
	return rejected
}

// IsActive returns true if the prefilter is still being used.
func (t *Tracker) IsActive() bool {
	return t != nil && t.active
}

// IsComplete delegates to the inner prefilter's IsComplete.
func (t *Tracker) IsComplete() bool {
	return t.inner.IsComplete()
}

// Stats returns the current tracking statistics.
//
// Returns (checks, rejects, efficiency, active).
func (t *Tracker) Stats() (checks, rejects uint64, efficiency float64, active bool) {
	checks = t.checks
	rejects = t.rejects
	if checks > 0 {
		efficiency = float64(rejects) / float64(checks)
	}
	active = t.active
	return
}

// Reset clears statistics and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.checks = 0
	t.rejects = 0
	t.lastCheckpoint = 0
	t.active = true
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// checkEffectiveness evaluates whether to retire the prefilter. The real
// check only runs at configured intervals.
func (t *Tracker) checkEffectiveness() {
	if t.checks < t.warmupPeriod {
		return
	}
	if t.checks-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.checks

	efficiency := float64(t.rejects) / float64(t.checks)
	if efficiency < t.minEfficiency {
		t.active = false
	}
}
