package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/ttedit/internal/config/loader"
)

// Config holds every ttedit setting.
type Config struct {
	Logging LoggingConfig
	Editor  EditorConfig
	Watch   WatchConfig

	// Source is the config file that was read, or "" when none was.
	Source string
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error or off.
	Level string
	// File receives log output instead of stderr when set.
	File string
}

// EditorConfig configures the interactive editor.
type EditorConfig struct {
	Prompt        string
	BackupSuffix  string
	ConfirmDelete bool
	// PlayDelay is the default pause between snapshots during playback.
	PlayDelay time.Duration
	// LabelWidth is the display width labels are truncated to in the
	// timeline listing.
	LabelWidth    int
	CreateMissing bool
	// MaxFileSize is the largest file that will be opened, in bytes.
	// Zero means unlimited.
	MaxFileSize int64
}

// WatchConfig configures external change detection.
type WatchConfig struct {
	Enabled bool
}

// Log levels accepted by logging.level.
var validLevels = []string{"debug", "info", "warn", "error", "off"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "warn",
		},
		Editor: EditorConfig{
			Prompt:        "tt> ",
			BackupSuffix:  ".bak",
			ConfirmDelete: true,
			PlayDelay:     600 * time.Millisecond,
			LabelWidth:    60,
			CreateMissing: true,
			MaxFileSize:   10 * 1024 * 1024,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// options holds Load settings.
type options struct {
	file     string
	explicit bool
	fs       loader.FileSystem
	env      loader.Loader
}

// Option configures Load.
type Option func(*options)

// WithFile reads settings from path. Unlike the default path, a missing
// explicit file is an error.
func WithFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.file = path
			o.explicit = true
		}
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv reads environment settings from env instead of the process
// environment. A nil map disables the environment source.
func WithEnv(env map[string]string) Option {
	return func(o *options) {
		if env == nil {
			o.env = nil
			return
		}
		o.env = loader.NewEnvLoaderFromMap(loader.EnvPrefix, env)
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/ttedit/config.toml or ~/.config/ttedit/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ttedit", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ttedit", "config.toml")
}

// Load builds a Config from defaults, the config file and the environment,
// then validates it.
func Load(opts ...Option) (Config, error) {
	o := options{
		file: DefaultPath(),
		fs:   loader.DefaultFS(),
		env:  loader.NewEnvLoader(loader.EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	merged := make(map[string]any)

	fileData, source, err := loadFile(o)
	if err != nil {
		return cfg, err
	}
	merged = loader.DeepMerge(merged, fileData)
	cfg.Source = source

	if o.env != nil {
		envData, err := o.env.Load()
		if err != nil {
			return cfg, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envData)
	}

	if err := cfg.Apply(merged); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile reads the configured file. For the default path a YAML sibling
// is tried when the TOML file is absent.
func loadFile(o options) (map[string]any, string, error) {
	candidates := []string{o.file}
	if !o.explicit {
		base := strings.TrimSuffix(o.file, filepath.Ext(o.file))
		candidates = append(candidates, base+".yaml", base+".yml")
	}

	for _, path := range candidates {
		data, err := loader.ForPath(o.fs, path).Load()
		if err != nil {
			return nil, "", err
		}
		if data != nil {
			return data, path, nil
		}
	}

	if o.explicit {
		return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, o.file)
	}
	return nil, "", nil
}

// Apply overlays the values in data onto c. Keys are section.setting paths
// as produced by the loaders; unknown keys are ignored. Every type error is
// reported.
func (c *Config) Apply(data map[string]any) error {
	var errs []error
	str := func(path string, dst *string) {
		if v, ok := loader.Lookup(data, path); ok {
			if s, err := asString(path, v); err != nil {
				errs = append(errs, err)
			} else {
				*dst = s
			}
		}
	}
	boolean := func(path string, dst *bool) {
		if v, ok := loader.Lookup(data, path); ok {
			if b, err := asBool(path, v); err != nil {
				errs = append(errs, err)
			} else {
				*dst = b
			}
		}
	}
	integer := func(path string, dst *int64) {
		if v, ok := loader.Lookup(data, path); ok {
			if n, err := asInt(path, v); err != nil {
				errs = append(errs, err)
			} else {
				*dst = n
			}
		}
	}
	duration := func(path string, dst *time.Duration) {
		if v, ok := loader.Lookup(data, path); ok {
			if d, err := asDuration(path, v); err != nil {
				errs = append(errs, err)
			} else {
				*dst = d
			}
		}
	}

	str("logging.level", &c.Logging.Level)
	str("logging.file", &c.Logging.File)
	str("editor.prompt", &c.Editor.Prompt)
	str("editor.backup_suffix", &c.Editor.BackupSuffix)
	boolean("editor.confirm_delete", &c.Editor.ConfirmDelete)
	duration("editor.play_delay", &c.Editor.PlayDelay)
	width := int64(c.Editor.LabelWidth)
	integer("editor.label_width", &width)
	c.Editor.LabelWidth = int(width)
	boolean("editor.create_missing", &c.Editor.CreateMissing)
	integer("editor.max_file_size", &c.Editor.MaxFileSize)
	boolean("watch.enabled", &c.Watch.Enabled)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return errors.Join(errs...)
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error

	valid := false
	for _, l := range validLevels {
		if c.Logging.Level == l || (c.Logging.Level == "warning" && l == "warn") {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be one of " + strings.Join(validLevels, ", "),
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		})
	}
	if c.Editor.BackupSuffix == "" {
		errs = append(errs, &ValidationError{
			Path:    "editor.backup_suffix",
			Message: "must not be empty",
			Value:   c.Editor.BackupSuffix,
			Code:    ErrCodeRequiredMissing,
		})
	}
	if c.Editor.PlayDelay < 0 {
		errs = append(errs, &ValidationError{
			Path:    "editor.play_delay",
			Message: "must not be negative",
			Value:   c.Editor.PlayDelay,
			Code:    ErrCodeOutOfRange,
		})
	}
	if c.Editor.LabelWidth < 4 {
		errs = append(errs, &ValidationError{
			Path:    "editor.label_width",
			Message: "must be at least 4",
			Value:   c.Editor.LabelWidth,
			Code:    ErrCodeOutOfRange,
		})
	}
	if c.Editor.MaxFileSize < 0 {
		errs = append(errs, &ValidationError{
			Path:    "editor.max_file_size",
			Message: "must not be negative",
			Value:   c.Editor.MaxFileSize,
			Code:    ErrCodeOutOfRange,
		})
	}

	return errors.Join(errs...)
}

func asString(path string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", &TypeError{Path: path, Expected: "string", Actual: fmt.Sprintf("%T", v)}
}

func asBool(path string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return false, &TypeError{Path: path, Expected: "bool", Actual: fmt.Sprintf("%T(%v)", v, v)}
}

func asInt(path string, v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val), nil
		}
	case float64:
		if val == math.Trunc(val) {
			return int64(val), nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "integer", Actual: fmt.Sprintf("%T(%v)", v, v)}
}

// asDuration accepts a duration string or a number of seconds.
func asDuration(path string, v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(val)
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%T(%v)", v, v)}
}
