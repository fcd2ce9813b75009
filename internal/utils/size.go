package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	fverrors "github.com/javi11/flashverify/internal/errors"
)

const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
	TiB int64 = 1 << 40
)

var sizeSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"kb", KiB},
	{"mb", MiB},
	{"gb", GiB},
	{"k", KiB},
	{"m", MiB},
	{"g", GiB},
	{"b", 1},
}

// ParseSize parses a byte count such as "4096", "512KB", "1.5GB" or "8g".
// Suffixes are binary: KB=2^10, MB=2^20, GB=2^30.
func ParseSize(s string) (int64, error) {
	ss := strings.ToLower(strings.TrimSpace(s))
	if ss == "" {
		return 0, fverrors.NewInvalidInput("empty size", nil)
	}

	mult := int64(1)
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(ss, sfx.suffix) {
			mult = sfx.mult
			ss = strings.TrimSpace(strings.TrimSuffix(ss, sfx.suffix))
			break
		}
	}

	if n, err := strconv.ParseInt(ss, 10, 64); err == nil {
		if n < 0 {
			return 0, fverrors.NewInvalidInput(fmt.Sprintf("negative size %q", s), nil)
		}
		if n > math.MaxInt64/mult {
			return 0, fverrors.NewInvalidInput(fmt.Sprintf("size %q overflows", s), nil)
		}
		return n * mult, nil
	}

	v, err := strconv.ParseFloat(ss, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fverrors.NewInvalidInput(fmt.Sprintf("cannot parse size %q", s), err)
	}
	if v < 0 {
		return 0, fverrors.NewInvalidInput(fmt.Sprintf("negative size %q", s), nil)
	}
	bytes := v * float64(mult)
	if bytes >= math.MaxInt64 {
		return 0, fverrors.NewInvalidInput(fmt.Sprintf("size %q overflows", s), nil)
	}
	return int64(bytes), nil
}

// FormatBytes renders n using binary units, e.g. "1.50 GiB".
func FormatBytes(n int64) string {
	switch {
	case n >= TiB:
		return fmt.Sprintf("%.2f TiB", float64(n)/float64(TiB))
	case n >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(n)/float64(GiB))
	case n >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(n)/float64(MiB))
	case n >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(n)/float64(KiB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. "16,777,232".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
