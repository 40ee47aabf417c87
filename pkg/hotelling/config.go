package hotelling

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidConfiguration reports a run that cannot start: fewer than
	// two players or a non-positive solution cap.
	ErrInvalidConfiguration = errors.New("hotelling: invalid configuration")

	// ErrInconclusive reports a search the engine gave up on. It is never
	// a statement that no further equilibrium exists.
	ErrInconclusive = errors.New("hotelling: solver inconclusive")
)

// Config configures one equilibrium search.
type Config struct {
	// Players is N, the number of competitors. At least 2.
	Players int

	// MaxSolutions caps the number of reported equilibria. At least 1.
	MaxSolutions int

	// Verbose writes the per-player, per-slot construction trace to Trace.
	Verbose bool
	Trace   io.Writer

	Logger zerolog.Logger
}

// DefaultConfig returns two players and a cap of 100 solutions.
func DefaultConfig() Config {
	return Config{
		Players:      2,
		MaxSolutions: 100,
		Logger:       zerolog.Nop(),
	}
}

// Validate checks the configuration before anything is built.
func (c Config) Validate() error {
	if c.Players < 2 {
		return fmt.Errorf("%w: at least 2 players needed, got %d", ErrInvalidConfiguration, c.Players)
	}
	if c.MaxSolutions < 1 {
		return fmt.Errorf("%w: max solutions must be positive, got %d", ErrInvalidConfiguration, c.MaxSolutions)
	}
	return nil
}

func (c Config) trace() io.Writer {
	if !c.Verbose || c.Trace == nil {
		return io.Discard
	}
	return c.Trace
}
