// Package capacity writes and validates capacity test files.
//
// A test file is a format.Header followed by DeclaredSize-16 bytes of the
// prng stream for the header's seed. The Generator writes it in ChunkSize
// pieces; the Validator regenerates the same stream chunk by chunk and
// compares it against what the device returns.
package capacity

import (
	"log/slog"
	"time"

	"github.com/javi11/flashverify/internal/progress"
)

// ChunkSize is the unit of generation, I/O and comparison. It bounds memory
// use to two buffers of this size regardless of the file size and must stay
// a multiple of eight to keep the stream position-stable.
const ChunkSize = 1 << 24

// SeedFunc returns the seed for a new test file.
type SeedFunc func() int64

// TimeSeed seeds from the wall clock in milliseconds.
func TimeSeed() int64 {
	return time.Now().UnixMilli()
}

// FixedSeed always returns seed.
func FixedSeed(seed int64) SeedFunc {
	return func() int64 { return seed }
}

// Result describes a completed validation.
type Result struct {
	Seed         int64
	DeclaredSize int64
	// Verified counts the bytes read and matched, header included.
	Verified int64
	// Trailing is set when the file holds data beyond DeclaredSize.
	Trailing bool
}

type options struct {
	seed     SeedFunc
	reporter progress.Reporter
	log      *slog.Logger
}

// Option configures a Generator or Validator.
type Option func(*options)

// WithSeed overrides the seed source used by the Generator.
func WithSeed(fn SeedFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.seed = fn
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(component string, opts ...Option) options {
	o := options{
		seed: TimeSeed,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With("component", component)
	return o
}
