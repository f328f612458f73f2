package loader

import (
	"os"
	"strings"
)

// EnvPrefix is the prefix of environment variables read by the editor.
const EnvPrefix = "TTEDIT_"

// EnvLoader loads configuration from environment variables.
//
// Values are kept as strings; the config package converts them to the
// setting's type.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TTEDIT_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TTEDIT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// NewEnvLoaderFromMap creates a loader that reads variables from env
// instead of the process environment.
func NewEnvLoaderFromMap(prefix string, env map[string]string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	l.environ = func() []string {
		out := make([]string, 0, len(env))
		for k, v := range env {
			out = append(out, k+"="+v)
		}
		return out
	}
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"TTEDIT_LOG_LEVEL":      "logging.level",
		"TTEDIT_LOG_FILE":       "logging.file",
		"TTEDIT_PROMPT":         "editor.prompt",
		"TTEDIT_BACKUP_SUFFIX":  "editor.backup_suffix",
		"TTEDIT_CONFIRM_DELETE": "editor.confirm_delete",
		"TTEDIT_PLAY_DELAY":     "editor.play_delay",
		"TTEDIT_LABEL_WIDTH":    "editor.label_width",
		"TTEDIT_CREATE_MISSING": "editor.create_missing",
		"TTEDIT_MAX_FILE_SIZE":  "editor.max_file_size",
		"TTEDIT_WATCH":          "watch.enabled",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	// First, load explicitly mapped variables
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, val)
		}
	}

	// Then, scan for additional prefixed variables not in mapping
	for _, env := range l.environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}

		// TTEDIT_EDITOR__LABEL_WIDTH -> editor.label_width
		if path := l.envToPath(name); path != "" {
			setByPath(config, path, value)
		}
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts TTEDIT_SECTION__SETTING_NAME to section.setting_name.
// A double underscore separates the section from the setting so setting
// names can keep their single underscores. Names without one are ignored.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	section, setting, ok := strings.Cut(name, "__")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(setting)
}
