package capacity

import (
	"bytes"
	"context"
	"errors"
	"io"

	fverrors "github.com/javi11/flashverify/internal/errors"
	"github.com/javi11/flashverify/internal/format"
	"github.com/javi11/flashverify/internal/prng"
	"github.com/javi11/flashverify/internal/progress"
)

// Validator checks test files written by a Generator.
type Validator struct {
	options
}

// NewValidator creates a Validator. WithSeed has no effect on it.
func NewValidator(opts ...Option) *Validator {
	return &Validator{options: newOptions("validator", opts...)}
}

// Validate reads a test file from r and compares it against the stream
// regenerated from its header. The returned Result reflects progress made
// even when an error is returned.
//
// A content mismatch reports the file offset of the start of the failing
// chunk, not of the exact byte. Data past the declared size is not compared;
// it only sets Result.Trailing.
func (v *Validator) Validate(ctx context.Context, r io.Reader) (Result, error) {
	h, err := format.ReadHeader(r)
	if err != nil {
		v.log.ErrorContext(ctx, "Cannot read header", "err", err)
		return Result{}, err
	}

	res := Result{
		Seed:         h.Seed,
		DeclaredSize: h.DeclaredSize,
		Verified:     format.HeaderSize,
	}
	v.log.InfoContext(ctx, "Validating test file", "seed", h.Seed, "declared_size", h.DeclaredSize)

	tracker := progress.NewTracker(v.reporter, progress.OpVerify, h.DeclaredSize)
	tracker.Update(res.Verified)

	stream := prng.New(h.Seed)
	payload := io.LimitReader(r, h.PayloadSize())
	size := min(int64(ChunkSize), h.PayloadSize())
	actual := make([]byte, size)
	expected := make([]byte, size)

	for {
		n, err := io.ReadFull(payload, actual)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			v.log.ErrorContext(ctx, "Read failed", "offset", res.Verified+int64(n), "err", err)
			return res, fverrors.NewIOFailure("read", res.Verified+int64(n), err)
		}
		if n == 0 {
			break
		}

		stream.Fill(expected)
		if n < len(actual) {
			clear(actual[n:])
			clear(expected[n:])
		}

		if !bytes.Equal(actual, expected) {
			v.log.ErrorContext(ctx, "Content mismatch", "chunk_offset", res.Verified)
			return res, fverrors.NewContentMismatch(res.Verified)
		}

		res.Verified += int64(n)
		tracker.Update(res.Verified)
		v.log.DebugContext(ctx, "Chunk verified", "verified", res.Verified, "percent", progress.Percent(res.Verified, h.DeclaredSize))

		if n < len(actual) {
			break
		}
	}

	if res.Verified != h.DeclaredSize {
		v.log.ErrorContext(ctx, "Size mismatch", "declared_size", h.DeclaredSize, "verified", res.Verified)
		return res, fverrors.NewSizeMismatch(h.DeclaredSize, res.Verified)
	}

	var probe [1]byte
	if n, _ := io.ReadFull(r, probe[:]); n > 0 {
		res.Trailing = true
		v.log.WarnContext(ctx, "File holds data beyond its declared size, ignoring it", "declared_size", h.DeclaredSize)
	}

	v.log.InfoContext(ctx, "Test file verified", "verified", res.Verified)
	return res, nil
}
