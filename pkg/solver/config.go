package solver

import (
	"time"

	"github.com/rs/zerolog"
)

// Backend names a solver implementation.
type Backend string

// Available backends.
const (
	BackendNative  Backend = "native"
	BackendSampled Backend = "sampled"
	BackendZ3      Backend = "z3"
)

// Config configures a solver backend.
type Config struct {
	// Backend selects the implementation returned by New.
	Backend Backend

	// Timeout bounds a single Check. Zero means no bound. A check that
	// runs out of time reports Unknown.
	Timeout time.Duration

	// Z3Path is the z3 executable used by the z3 backend.
	Z3Path string

	// Resolution is the number of grid intervals per quantified variable
	// used by the sampled backend.
	Resolution int

	// PollInterval is how often a running gini search is checked for
	// cancellation.
	PollInterval time.Duration

	// Logger receives backend diagnostics.
	Logger zerolog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the native backend without a timeout.
func DefaultConfig(opts ...Option) Config {
	cfg := Config{
		Backend:      BackendNative,
		Z3Path:       "z3",
		Resolution:   16,
		PollInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithBackend selects the backend.
func WithBackend(b Backend) Option {
	return func(c *Config) { c.Backend = b }
}

// WithTimeout bounds each Check.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithPollInterval sets how often a running gini search is checked for
// cancellation.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

// WithZ3Path sets the z3 executable.
func WithZ3Path(path string) Option {
	return func(c *Config) { c.Z3Path = path }
}

// WithResolution sets the sampling grid of the sampled backend.
func WithResolution(n int) Option {
	return func(c *Config) { c.Resolution = n }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
