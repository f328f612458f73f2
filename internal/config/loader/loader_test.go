package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLLoader(t *testing.T) {
	fsys := MapFS{
		"/cfg/config.toml": "[editor]\nprompt = \"> \"\nlabel_width = 40\n\n[watch]\nenabled = false\n",
	}

	got, err := NewTOMLLoaderWithFS(fsys, "/cfg/config.toml").Load()
	require.NoError(t, err)

	v, ok := Lookup(got, "editor.prompt")
	require.True(t, ok)
	assert.Equal(t, "> ", v)

	v, ok = Lookup(got, "editor.label_width")
	require.True(t, ok)
	assert.EqualValues(t, 40, v)

	v, ok = Lookup(got, "watch.enabled")
	require.True(t, ok)
	assert.Equal(t, false, v)
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	got, err := NewTOMLLoaderWithFS(MapFS{}, "/nope.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTOMLParseError(t *testing.T) {
	_, err := ParseTOML("bad.toml", []byte("[editor\nprompt = 1"))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.toml", pe.Path)
	assert.Positive(t, pe.Line)
	assert.Contains(t, pe.Error(), "bad.toml")
}

func TestYAMLLoader(t *testing.T) {
	fsys := MapFS{
		"/cfg/config.yaml": "logging:\n  level: debug\neditor:\n  play_delay: 1.5\n",
	}

	got, err := NewYAMLLoaderWithFS(fsys, "/cfg/config.yaml").Load()
	require.NoError(t, err)

	v, ok := Lookup(got, "logging.level")
	require.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = Lookup(got, "editor.play_delay")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestYAMLEmptyDocument(t *testing.T) {
	got, err := ParseYAML("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestYAMLParseError(t *testing.T) {
	_, err := ParseYAML("bad.yaml", []byte("editor: [unclosed"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.yaml", pe.Path)
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"config.toml", &TOMLLoader{}},
		{"config", &TOMLLoader{}},
		{"config.yaml", &YAMLLoader{}},
		{"config.YML", &YAMLLoader{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.IsType(t, tt.want, ForPath(MapFS{}, tt.path))
		})
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoaderFromMap(EnvPrefix, map[string]string{
		"TTEDIT_LOG_LEVEL":           "info",
		"TTEDIT_PLAY_DELAY":          "250ms",
		"TTEDIT_EDITOR__LABEL_WIDTH": "30",
		"TTEDIT_NOSECTION":           "x",
		"OTHER_VAR":                  "ignored",
	})

	got, err := l.Load()
	require.NoError(t, err)

	v, ok := Lookup(got, "logging.level")
	require.True(t, ok)
	assert.Equal(t, "info", v)

	v, ok = Lookup(got, "editor.play_delay")
	require.True(t, ok)
	assert.Equal(t, "250ms", v)

	v, ok = Lookup(got, "editor.label_width")
	require.True(t, ok)
	assert.Equal(t, "30", v)

	_, ok = Lookup(got, "nosection")
	assert.False(t, ok)
	assert.Len(t, got, 2) // logging, editor
}

func TestEnvLoaderAddMapping(t *testing.T) {
	l := NewEnvLoaderFromMap(EnvPrefix, map[string]string{"TTEDIT_QUIET": "yes"})
	l.AddMapping("TTEDIT_QUIET", "logging.level")

	got, err := l.Load()
	require.NoError(t, err)
	v, _ := Lookup(got, "logging.level")
	assert.Equal(t, "yes", v)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"prompt": "a", "label_width": 10},
		"logging": map[string]any{"level": "warn"},
	}
	src := map[string]any{
		"editor": map[string]any{"prompt": "b"},
		"watch":  map[string]any{"enabled": false},
	}

	got := DeepMerge(dst, src)

	v, _ := Lookup(got, "editor.prompt")
	assert.Equal(t, "b", v)
	v, _ = Lookup(got, "editor.label_width")
	assert.Equal(t, 10, v)
	v, _ = Lookup(got, "logging.level")
	assert.Equal(t, "warn", v)
	v, _ = Lookup(got, "watch.enabled")
	assert.Equal(t, false, v)

	assert.NotNil(t, DeepMerge(nil, nil))
}

func TestLookupMissing(t *testing.T) {
	data := map[string]any{"editor": "not a map"}
	_, ok := Lookup(data, "editor.prompt")
	assert.False(t, ok)
	_, ok = Lookup(data, "logging.level")
	assert.False(t, ok)
}
