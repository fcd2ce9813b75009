package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "defaults - ok",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty file name - error",
			mutate:      func(c *Config) { c.Target.FileName = "" },
			wantErr:     true,
			errContains: "target.file_name cannot be empty",
		},
		{
			name:        "file name with separator - error",
			mutate:      func(c *Config) { c.Target.FileName = "sub/test.bin" },
			wantErr:     true,
			errContains: "plain file name",
		},
		{
			name:        "file name dot dot - error",
			mutate:      func(c *Config) { c.Target.FileName = ".." },
			wantErr:     true,
			errContains: "plain file name",
		},
		{
			name:        "negative reserve - error",
			mutate:      func(c *Config) { c.Target.ReserveBytes = -1 },
			wantErr:     true,
			errContains: "target.reserve_bytes",
		},
		{
			name:   "zero reserve - ok",
			mutate: func(c *Config) { c.Target.ReserveBytes = 0 },
		},
		{
			name:        "bad level - error",
			mutate:      func(c *Config) { c.Log.Level = "trace" },
			wantErr:     true,
			errContains: "log.level",
		},
		{
			name:   "upper case level and format - ok",
			mutate: func(c *Config) { c.Log.Level, c.Log.Format = "DEBUG", "Json" },
		},
		{
			name:        "bad format - error",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			wantErr:     true,
			errContains: "log.format",
		},
		{
			name:        "negative max size - error",
			mutate:      func(c *Config) { c.Log.MaxSize = -1 },
			wantErr:     true,
			errContains: "log.max_size",
		},
		{
			name:        "negative max age - error",
			mutate:      func(c *Config) { c.Log.MaxAge = -1 },
			wantErr:     true,
			errContains: "log.max_age",
		},
		{
			name:        "negative max backups - error",
			mutate:      func(c *Config) { c.Log.MaxBackups = -1 },
			wantErr:     true,
			errContains: "log.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flashverify.yaml")

	cfg := DefaultConfig()
	cfg.Target.FileName = "probe.bin"
	cfg.Target.ReserveBytes = 1 << 20
	cfg.Check.RemoveOnSuccess = true
	cfg.Log.Level = "debug"
	require.NoError(t, SaveToFile(afero.NewOsFs(), cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("check:\n  prompt_reinsert: false\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.GetPromptReinsert())
	assert.Equal(t, DefaultFileName, cfg.GetFileName())
	assert.Equal(t, DefaultReserveBytes, cfg.Target.ReserveBytes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestConfig_ValidateNormalizesCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "WARN"
	cfg.Log.Format = "JSON"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestSaveToFile_MemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, SaveToFile(fs, DefaultConfig(), "/etc/flashverify/flashverify.yaml"))

	data, err := afero.ReadFile(fs, "/etc/flashverify/flashverify.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "file_name: flashverify.bin")
}

func TestSaveToFile_EmptyPath(t *testing.T) {
	assert.Error(t, SaveToFile(afero.NewMemMapFs(), DefaultConfig(), ""))
}

func TestLoadConfig_SearchedFileNamedInError(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile("flashverify.yaml", []byte("log: [unclosed\n"), 0644))

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flashverify.yaml")
	assert.NotContains(t, err.Error(), "config file :")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestAccessors_Fallbacks(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.GetPromptReinsert())
	assert.Equal(t, DefaultFileName, cfg.GetFileName())
}
