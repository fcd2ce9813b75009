package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javi11/flashverify/internal/config"
	fverrors "github.com/javi11/flashverify/internal/errors"
	"github.com/javi11/flashverify/internal/utils"
)

func plentyOfSpace(string) (utils.DiskSpace, error) {
	return utils.DiskSpace{Total: 1 << 40, Free: 1 << 40, Available: 1 << 40}, nil
}

// setup points the commands at a fresh directory with a config file whose
// log output stays out of the way.
func setup(t *testing.T) (dir string, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)

	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	cfgPath = filepath.Join(dir, "flashverify.yaml")
	require.NoError(t, config.SaveToFile(afero.NewOsFs(), cfg, cfgPath))

	oldSpace, oldFs := spaceFunc, newFs
	spaceFunc, newFs = plentyOfSpace, afero.NewOsFs
	t.Cleanup(func() {
		spaceFunc, newFs = oldSpace, oldFs
	})
	return dir, cfgPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configFile, logLevel, verbose = "", "", false
	noPrompt, removeOK, forceInit = false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteThenVerify(t *testing.T) {
	dir, cfgPath := setup(t)

	out, err := run(t, "", "--config", cfgPath, "write", dir, "4kb")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4,096 bytes")

	path := filepath.Join(dir, config.DefaultFileName)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info.Size())

	out, err = run(t, "", "--config", cfgPath, "verify", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: verified 4,096 bytes")
}

func TestVerify_DetectsCorruption(t *testing.T) {
	dir, cfgPath := setup(t)
	path := filepath.Join(dir, "test.bin")

	_, err := run(t, "", "--config", cfgPath, "write", path, "1000")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[500] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0644))

	out, err := run(t, "", "--config", cfgPath, "verify", path)
	require.ErrorIs(t, err, fverrors.ErrContentMismatch)
	assert.Contains(t, describe(err), "byte 16")
	assert.Contains(t, out, "Verification stopped at 1.60% (16 of 1,000 bytes matched)")
}

func TestVerify_DetectsTruncation(t *testing.T) {
	dir, cfgPath := setup(t)
	path := filepath.Join(dir, "test.bin")

	_, err := run(t, "", "--config", cfgPath, "write", path, "1000")
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, 600))

	_, err = run(t, "", "--config", cfgPath, "verify", path)
	require.ErrorIs(t, err, fverrors.ErrSizeMismatch)
	assert.Contains(t, describe(err), "600 of 1,000 bytes")
}

func TestVerify_MissingFile(t *testing.T) {
	dir, cfgPath := setup(t)

	_, err := run(t, "", "--config", cfgPath, "verify", filepath.Join(dir, "nope.bin"))
	assert.ErrorIs(t, err, fverrors.ErrInvalidInput)
}

func TestWrite_InvalidSize(t *testing.T) {
	dir, cfgPath := setup(t)

	for _, size := range []string{"abc", "-5", "10", "1tb"} {
		_, err := run(t, "", "--config", cfgPath, "write", dir, size)
		assert.ErrorIs(t, err, fverrors.ErrInvalidInput, "size %q", size)
	}
	_, statErr := os.Stat(filepath.Join(dir, config.DefaultFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWrite_InsufficientSpace(t *testing.T) {
	dir, cfgPath := setup(t)
	spaceFunc = func(string) (utils.DiskSpace, error) {
		return utils.DiskSpace{Available: 1 << 20}, nil
	}

	_, err := run(t, "", "--config", cfgPath, "write", dir, "1mb")
	require.ErrorIs(t, err, fverrors.ErrInsufficientSpace)
	assert.Contains(t, describe(err), "not enough free space")
}

func TestCheck_PromptsAndRemoves(t *testing.T) {
	dir, cfgPath := setup(t)

	out, err := run(t, "\n", "--config", cfgPath, "check", dir, "2kb", "--remove")
	require.NoError(t, err)
	assert.Contains(t, out, "press Enter")
	assert.Contains(t, out, "OK: verified 2,048 bytes")
	assert.Contains(t, out, "Removed")

	_, statErr := os.Stat(filepath.Join(dir, config.DefaultFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck_NoPromptKeepsFile(t *testing.T) {
	dir, cfgPath := setup(t)

	out, err := run(t, "", "--config", cfgPath, "check", dir, "100", "--no-prompt")
	require.NoError(t, err)
	assert.NotContains(t, out, "press Enter")

	_, statErr := os.Stat(filepath.Join(dir, config.DefaultFileName))
	assert.NoError(t, statErr)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "flashverify.yaml")

	out, err := run(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Target, cfg.Target)

	_, err = run(t, "", "config", "init", path)
	assert.Error(t, err)

	_, err = run(t, "", "config", "init", path, "--force")
	assert.NoError(t, err)
}

func TestConfigInit_WritesThroughFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	oldFs := newFs
	newFs = func() afero.Fs { return fs }
	t.Cleanup(func() { newFs = oldFs })

	_, err := run(t, "", "config", "init", "/etc/flashverify/flashverify.yaml")
	require.NoError(t, err)

	ok, err := afero.Exists(fs, "/etc/flashverify/flashverify.yaml")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, "", "config", "init", "/etc/flashverify/flashverify.yaml")
	assert.ErrorContains(t, err, "already exists")
}

func TestLogLevelFlag_AnyCase(t *testing.T) {
	dir, cfgPath := setup(t)

	_, err := run(t, "", "--config", cfgPath, "--log-level", "WARN", "write", dir, "64")
	require.NoError(t, err)

	_, err = run(t, "", "--config", cfgPath, "--log-level", "loud", "write", dir, "64")
	assert.ErrorContains(t, err, "log.level")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("boom"), "boom"},
		{"space", fverrors.NewInsufficientSpace("/mnt", 1<<20, 3<<30), "1.00 MiB available, 3.00 GiB required"},
		{"mismatch", fverrors.NewContentMismatch(16 + 1<<24), "byte 16,777,232"},
		{"size", fverrors.NewSizeMismatch(1000, 16), "16 of 1,000 bytes (0 B of payload intact)"},
		{"header", fverrors.NewCorruptHeader("short header", nil), "header is unreadable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, describe(tt.err), tt.want)
		})
	}
}
