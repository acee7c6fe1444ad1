package legrep

import (
	"errors"

	"github.com/coregx/legrep/backtrack"
)

// ErrInvalidConfig is the sentinel every configuration error wraps.
var ErrInvalidConfig = errors.New("legrep: invalid config")

// Config controls compilation limits and matcher behavior.
//
// Example:
//
//	config := legrep.DefaultConfig()
//	config.EnablePrefilter = false // always run the backtracker
//	re, err := legrep.CompileWithConfig("fo*bar", config)
type Config struct {
	// MaxAtoms caps the number of atoms in a compiled pattern. Longer
	// patterns fail with syntax.ErrPatternTooComplex. Zero means no limit.
	// Default: 256
	MaxAtoms int

	// MaxVisitedBits caps the visited vector the backtracker keeps per
	// search. Lines needing more bits are searched without pruning. Zero
	// disables pruning.
	// Default: backtrack.DefaultMaxVisitedBits (256KB)
	MaxVisitedBits int

	// EnablePrefilter enables literal-based prefiltering. Prefilters never
	// change an answer, only how fast it is found.
	// Default: true
	EnablePrefilter bool

	// MaxLiteralLen limits the length of extracted literals.
	// Default: 64
	MaxLiteralLen int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAtoms:        256,
		MaxVisitedBits:  backtrack.DefaultMaxVisitedBits,
		EnablePrefilter: true,
		MaxLiteralLen:   64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxAtoms: 0 to 1,000,000
//   - MaxVisitedBits: 0 to 1<<30
//   - MaxLiteralLen: 1 to 1,024 (only checked when EnablePrefilter is set)
func (c Config) Validate() error {
	if c.MaxAtoms < 0 || c.MaxAtoms > 1_000_000 {
		return &ConfigError{
			Field:   "MaxAtoms",
			Message: "must be between 0 and 1,000,000",
		}
	}
	if c.MaxVisitedBits < 0 || c.MaxVisitedBits > 1<<30 {
		return &ConfigError{
			Field:   "MaxVisitedBits",
			Message: "must be between 0 and 1<<30",
		}
	}
	if c.EnablePrefilter && (c.MaxLiteralLen < 1 || c.MaxLiteralLen > 1_024) {
		return &ConfigError{
			Field:   "MaxLiteralLen",
			Message: "must be between 1 and 1,024",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
// errors.Is(err, ErrInvalidConfig) holds for every ConfigError.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "legrep: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
