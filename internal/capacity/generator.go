package capacity

import (
	"context"
	"fmt"
	"io"

	fverrors "github.com/javi11/flashverify/internal/errors"
	"github.com/javi11/flashverify/internal/format"
	"github.com/javi11/flashverify/internal/prng"
	"github.com/javi11/flashverify/internal/progress"
)

// Generator writes test files.
type Generator struct {
	options
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	return &Generator{options: newOptions("generator", opts...)}
}

// Generate writes a header and requiredSize-16 stream bytes to w and returns
// the number of bytes written. Any write error ends the run; nothing is retried.
func (g *Generator) Generate(ctx context.Context, w io.Writer, requiredSize int64) (int64, error) {
	if requiredSize < format.HeaderSize {
		return 0, fverrors.NewInvalidInput(
			fmt.Sprintf("size %d is smaller than the %d byte header", requiredSize, format.HeaderSize), nil)
	}

	seed := g.seed()
	g.log.InfoContext(ctx, "Generating test file", "seed", seed, "size", requiredSize)

	if err := format.WriteHeader(w, format.Header{Seed: seed, DeclaredSize: requiredSize}); err != nil {
		return 0, err
	}
	written := int64(format.HeaderSize)

	tracker := progress.NewTracker(g.reporter, progress.OpWrite, requiredSize)
	tracker.Update(written)

	stream := prng.New(seed)
	buf := make([]byte, min(int64(ChunkSize), requiredSize-written))

	for written < requiredSize {
		chunk := buf[:min(requiredSize-written, int64(len(buf)))]
		stream.Fill(chunk)

		n, err := w.Write(chunk)
		if err == nil && n != len(chunk) {
			err = io.ErrShortWrite
		}
		if err != nil {
			g.log.ErrorContext(ctx, "Write failed", "offset", written+int64(n), "err", err)
			return written + int64(n), fverrors.NewIOFailure("write", written+int64(n), err)
		}

		written += int64(n)
		tracker.Update(written)
		g.log.DebugContext(ctx, "Chunk written", "written", written, "percent", progress.Percent(written, requiredSize))
	}

	g.log.InfoContext(ctx, "Test file generated", "seed", seed, "written", written)
	return written, nil
}
