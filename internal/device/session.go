// Package device runs write and verify sessions against a test file on the
// device under test. Each session owns the file handle for its duration and
// releases it on every exit path.
package device

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/javi11/flashverify/internal/capacity"
	"github.com/javi11/flashverify/internal/config"
	fverrors "github.com/javi11/flashverify/internal/errors"
	"github.com/javi11/flashverify/internal/format"
	"github.com/javi11/flashverify/internal/pathutil"
	"github.com/javi11/flashverify/internal/progress"
	"github.com/javi11/flashverify/internal/slogutil"
	"github.com/javi11/flashverify/internal/utils"
)

// Session writes and verifies test files on one filesystem.
type Session struct {
	fs       afero.Fs
	space    utils.SpaceFunc
	reserve  int64
	seed     capacity.SeedFunc
	reporter progress.Reporter
	log      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithSpaceFunc replaces the free space probe.
func WithSpaceFunc(fn utils.SpaceFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.space = fn
		}
	}
}

// WithReserve sets the free space required on top of the test file.
func WithReserve(n int64) Option {
	return func(s *Session) {
		s.reserve = max(n, 0)
	}
}

// WithSeed replaces the generator's seed source.
func WithSeed(fn capacity.SeedFunc) Option {
	return func(s *Session) {
		s.seed = fn
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession creates a session on fs. A nil fs means the OS filesystem.
func NewSession(fs afero.Fs, opts ...Option) *Session {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &Session{
		fs:      fs,
		space:   utils.GetDiskSpace,
		reserve: config.DefaultReserveBytes,
		seed:    capacity.TimeSeed,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preflight checks that the volume holding dir can take size bytes plus the
// reserve. credit is space already held by a file that will be overwritten.
func (s *Session) Preflight(dir string, size, credit int64) error {
	space, err := s.space(dir)
	if err != nil {
		return fverrors.NewIOFailure("stat filesystem "+dir, -1, err)
	}

	available := space.Available + max(credit, 0)
	required := size + s.reserve
	if size > math.MaxInt64-s.reserve {
		required = math.MaxInt64
	}
	if available < required {
		return fverrors.NewInsufficientSpace(dir, available, required)
	}

	s.log.Debug("Preflight passed", "dir", dir, "available", available, "required", required)
	return nil
}

// Write creates or truncates path and fills it with a size byte test file.
// The data is synced before the file is closed.
func (s *Session) Write(ctx context.Context, path string, size int64) (written int64, err error) {
	if size < format.HeaderSize {
		return 0, fverrors.NewInvalidInput(
			fmt.Sprintf("size must be at least %d bytes, got %d", format.HeaderSize, size), nil)
	}
	ctx = slogutil.With(ctx, "op", progress.OpWrite, "path", path)

	dir := filepath.Dir(path)
	if err := pathutil.CheckDirectory(s.fs, dir); err != nil {
		return 0, err
	}

	var credit int64
	if info, statErr := s.fs.Stat(path); statErr == nil && info.Mode().IsRegular() {
		credit = info.Size()
	}
	if err := s.Preflight(dir, size, credit); err != nil {
		s.log.ErrorContext(ctx, "Preflight failed", "err", err)
		return 0, err
	}

	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fverrors.NewIOFailure("create "+path, -1, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fverrors.NewIOFailure("close "+path, written, cerr)
		}
	}()

	gen := capacity.NewGenerator(
		capacity.WithSeed(s.seed),
		capacity.WithReporter(s.reporter),
		capacity.WithLogger(s.log),
	)
	written, err = gen.Generate(ctx, f, size)
	if err != nil {
		return written, err
	}

	if err := f.Sync(); err != nil {
		return written, fverrors.NewIOFailure("sync "+path, written, err)
	}

	return written, nil
}

// Verify opens path read-only and validates it.
func (s *Session) Verify(ctx context.Context, path string) (res capacity.Result, err error) {
	ctx = slogutil.With(ctx, "op", progress.OpVerify, "path", path)

	f, err := s.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, fverrors.NewInvalidInput("test file "+path+" does not exist", err)
		}
		return res, fverrors.NewIOFailure("open "+path, -1, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fverrors.NewIOFailure("close "+path, res.Verified, cerr)
		}
	}()

	val := capacity.NewValidator(
		capacity.WithReporter(s.reporter),
		capacity.WithLogger(s.log),
	)
	return val.Validate(ctx, f)
}

// Remove deletes the test file.
func (s *Session) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil {
		return fverrors.NewIOFailure("remove "+path, -1, err)
	}
	return nil
}
