package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ttedit/internal/config/loader"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "tt> ", cfg.Editor.Prompt)
	assert.Equal(t, 600*time.Millisecond, cfg.Editor.PlayDelay)
	assert.Equal(t, ".bak", cfg.Editor.BackupSuffix)
	assert.True(t, cfg.Watch.Enabled)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(
		WithFileSystem(loader.MapFS{}),
		WithEnv(map[string]string{}),
	)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOMLFile(t *testing.T) {
	fsys := loader.MapFS{
		"/etc/tt.toml": `
[logging]
level = "DEBUG"

[editor]
prompt = "> "
play_delay = "1s"
label_width = 20
confirm_delete = false
`,
	}

	cfg, err := Load(WithFile("/etc/tt.toml"), WithFileSystem(fsys), WithEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "/etc/tt.toml", cfg.Source)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "> ", cfg.Editor.Prompt)
	assert.Equal(t, time.Second, cfg.Editor.PlayDelay)
	assert.Equal(t, 20, cfg.Editor.LabelWidth)
	assert.False(t, cfg.Editor.ConfirmDelete)
	// Untouched settings keep their defaults.
	assert.Equal(t, ".bak", cfg.Editor.BackupSuffix)
}

func TestLoadYAMLFallback(t *testing.T) {
	fsys := loader.MapFS{
		"/home/u/.config/ttedit/config.yaml": "editor:\n  play_delay: 0.25\nwatch:\n  enabled: false\n",
	}
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")

	cfg, err := Load(WithFileSystem(fsys), WithEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config/ttedit/config.yaml", cfg.Source)
	assert.Equal(t, 250*time.Millisecond, cfg.Editor.PlayDelay)
	assert.False(t, cfg.Watch.Enabled)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(WithFile("/missing.toml"), WithFileSystem(loader.MapFS{}), WithEnv(nil))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadParseError(t *testing.T) {
	fsys := loader.MapFS{"/bad.toml": "[editor"}
	_, err := Load(WithFile("/bad.toml"), WithFileSystem(fsys), WithEnv(nil))

	var pe *loader.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestEnvOverridesFile(t *testing.T) {
	fsys := loader.MapFS{"/tt.toml": "[editor]\nprompt = \"file> \"\nlabel_width = 30\n"}

	cfg, err := Load(
		WithFile("/tt.toml"),
		WithFileSystem(fsys),
		WithEnv(map[string]string{
			"TTEDIT_PROMPT":                "env> ",
			"TTEDIT_WATCH":                 "off",
			"TTEDIT_EDITOR__MAX_FILE_SIZE": "1024",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "env> ", cfg.Editor.Prompt)
	assert.Equal(t, 30, cfg.Editor.LabelWidth)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, int64(1024), cfg.Editor.MaxFileSize)
}

func TestLoadFromProcessEnvironment(t *testing.T) {
	t.Setenv("TTEDIT_LOG_LEVEL", "info")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Source)
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nfile = \"/tmp/tt.log\"\n"), 0644))

	cfg, err := Load(WithFile(path), WithEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tt.log", cfg.Logging.File)
}

func TestApplyTypeErrors(t *testing.T) {
	cfg := Default()
	err := cfg.Apply(map[string]any{
		"editor": map[string]any{
			"prompt":         42,
			"confirm_delete": "maybe",
			"label_width":    "wide",
			"play_delay":     "soon",
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "editor.prompt")
	assert.Contains(t, err.Error(), "editor.label_width")

	// Fields with bad values keep their previous value.
	assert.Equal(t, "tt> ", cfg.Editor.Prompt)
	assert.Equal(t, 60, cfg.Editor.LabelWidth)
}

func TestApplyDurations(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Duration
	}{
		{"duration string", "1500ms", 1500 * time.Millisecond},
		{"seconds string", "2", 2 * time.Second},
		{"float seconds", 0.5, 500 * time.Millisecond},
		{"int seconds", int64(3), 3 * time.Second},
		{"duration", 5 * time.Millisecond, 5 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Apply(map[string]any{
				"editor": map[string]any{"play_delay": tt.in},
			}))
			assert.Equal(t, tt.want, cfg.Editor.PlayDelay)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", ErrCodeInvalidEnum},
		{"empty suffix", func(c *Config) { c.Editor.BackupSuffix = "" }, "editor.backup_suffix", ErrCodeRequiredMissing},
		{"negative delay", func(c *Config) { c.Editor.PlayDelay = -time.Second }, "editor.play_delay", ErrCodeOutOfRange},
		{"narrow labels", func(c *Config) { c.Editor.LabelWidth = 2 }, "editor.label_width", ErrCodeOutOfRange},
		{"negative size", func(c *Config) { c.Editor.MaxFileSize = -1 }, "editor.max_file_size", ErrCodeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.path, ve.Path)
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

func TestValidateAcceptsWarning(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warning"
	assert.NoError(t, cfg.Validate())
}

func TestValidationErrorCodeString(t *testing.T) {
	assert.Equal(t, "out_of_range", ErrCodeOutOfRange.String())
	assert.Equal(t, "invalid_enum", ErrCodeInvalidEnum.String())
	assert.Equal(t, "required_missing", ErrCodeRequiredMissing.String())
	assert.Equal(t, "unknown", ValidationErrorCode(99).String())
}
