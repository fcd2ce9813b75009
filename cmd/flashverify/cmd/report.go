package cmd

import (
	"fmt"

	fverrors "github.com/javi11/flashverify/internal/errors"
	"github.com/javi11/flashverify/internal/format"
	"github.com/javi11/flashverify/internal/utils"
)

// describe turns a failure into the line shown to the user.
func describe(err error) string {
	e, ok := fverrors.As(err)
	if !ok {
		return err.Error()
	}

	switch e.Kind {
	case fverrors.KindInsufficientSpace:
		return fmt.Sprintf("not enough free space: %s available, %s required",
			utils.FormatBytes(e.Actual), utils.FormatBytes(e.Expected))
	case fverrors.KindContentMismatch:
		return fmt.Sprintf("FAILED: data read back differs from data written in the chunk at byte %s. "+
			"The device does not hold what it claims to.", utils.FormatCount(e.Offset))
	case fverrors.KindSizeMismatch:
		return fmt.Sprintf("FAILED: the test file ends after %s of %s bytes (%s of payload intact). "+
			"The device lost the rest of the data.",
			utils.FormatCount(e.Actual), utils.FormatCount(e.Expected),
			utils.FormatBytes(max(e.Actual-format.HeaderSize, 0)))
	case fverrors.KindCorruptHeader:
		return "FAILED: the test file header is unreadable, so the file cannot be verified: " + err.Error()
	default:
		return err.Error()
	}
}
