package lua

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/session"
	"github.com/dshills/ttedit/internal/engine/timeline"
)

func newSession(lines ...string) *session.Session {
	return session.New(buffer.New(lines))
}

func TestRunner_ReadAPI(t *testing.T) {
	sess := newSession("alpha", "beta")
	var out bytes.Buffer
	r := NewRunner(sess, WithRunnerOutput(&out))

	err := r.RunString(context.Background(), "read", `
		print(tt.count(), tt.line(0), tt.head())
		local all = tt.lines()
		print(#all, all[1], all[2])
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\talpha\t0\n2\talpha\tbeta\n", out.String())
}

func TestRunner_Edits(t *testing.T) {
	sess := newSession("a", "b", "c")
	var out bytes.Buffer
	r := NewRunner(sess, WithRunnerOutput(&out))

	err := r.RunString(context.Background(), "edit", `
		print(tt.replace(0, "A"))
		print(tt.insert(3, "d"))
		print(tt.delete(1))
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out.String())
	assert.Equal(t, []string{"A", "c", "d"}, sess.Buffer().Lines())

	tl := sess.Timeline()
	require.Equal(t, 4, tl.Len())
	snap, err := tl.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "insert before line 3", snap.Label())
}

func TestRunner_CheckoutAndPreview(t *testing.T) {
	sess := newSession("one")
	_, err := sess.Replace(0, "two")
	require.NoError(t, err)

	var out bytes.Buffer
	r := NewRunner(sess, WithRunnerOutput(&out))
	err = r.RunString(context.Background(), "travel", `
		local old = tt.preview(0)
		print(old[1])
		print(tt.checkout(0))
		print(tt.line(0))
	`)
	require.NoError(t, err)
	assert.Equal(t, "one\n1\none\n", out.String())
	assert.Equal(t, 2, sess.Timeline().Len())

	head, err := sess.Timeline().Current()
	require.NoError(t, err)
	assert.Equal(t, timeline.CheckoutLabel(0), head.Label())
}

func TestRunner_RejectsNonIntegerArguments(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"fraction", `tt.delete(0.9)`},
		{"negative fraction", `tt.replace(-0.5, "x")`},
		{"nan", `tt.insert(0/0, "x")`},
		{"infinity", `tt.checkout(math.huge)`},
		{"huge", `tt.line(1e18)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession("a", "b", "c")
			r := NewRunner(sess)

			err := r.RunString(context.Background(), tt.name, tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "integer expected")
			assert.Equal(t, []string{"a", "b", "c"}, sess.Buffer().Lines())
			assert.Equal(t, 1, sess.Timeline().Len())
		})
	}
}

func TestRunner_Snapshots(t *testing.T) {
	sess := newSession("x")
	_, err := sess.Delete(0)
	require.NoError(t, err)

	var out bytes.Buffer
	r := NewRunner(sess, WithRunnerOutput(&out))
	err = r.RunString(context.Background(), "snaps", `
		for _, s in ipairs(tt.snapshots()) do
			print(s.index, s.label, s.lines, type(s.time))
		end
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\tinitial load\t1\tstring\n1\tdelete line 0\t0\tstring\n", out.String())
}

func TestRunner_SessionErrorUnwraps(t *testing.T) {
	sess := newSession("only")
	r := NewRunner(sess)

	err := r.RunString(context.Background(), "bad-line", `tt.replace(5, "x")`)
	require.Error(t, err)

	var scriptErr *ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "bad-line", scriptErr.Path)
	assert.ErrorIs(t, err, buffer.ErrLineOutOfRange)

	err = r.RunString(context.Background(), "bad-index", `tt.checkout(9)`)
	assert.ErrorIs(t, err, timeline.ErrIndexOutOfRange)

	assert.Equal(t, 1, sess.Timeline().Len())
}

func TestRunner_PcallCatchesSessionError(t *testing.T) {
	sess := newSession("only")
	var out bytes.Buffer
	r := NewRunner(sess, WithRunnerOutput(&out))

	err := r.RunString(context.Background(), "pcall", `
		local ok, err = pcall(tt.delete, 3)
		print(ok, tostring(err))
	`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "false\tdelete line 3: line number out of range")
}

func TestRunner_ReadOnlySession(t *testing.T) {
	sess := session.New(buffer.New([]string{"x"}), session.WithReadOnly())
	r := NewRunner(sess)

	err := r.RunString(context.Background(), "ro", `tt.replace(0, "y")`)
	assert.ErrorIs(t, err, session.ErrReadOnly)
}

func TestRunner_Sandbox(t *testing.T) {
	r := NewRunner(newSession())

	tests := []struct {
		name string
		code string
	}{
		{"os", `os.exit(1)`},
		{"io", `io.open("/etc/passwd")`},
		{"dofile", `dofile("x.lua")`},
		{"loadstring", `loadstring("return 1")()`},
		{"require", `require("os")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.RunString(context.Background(), tt.name, tt.code)
			assert.Error(t, err)
		})
	}
}

func TestRunner_FreshStatePerRun(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(newSession(), WithRunnerOutput(&out))

	require.NoError(t, r.RunString(context.Background(), "set", `leftover = 1`))
	require.NoError(t, r.RunString(context.Background(), "get", `print(leftover)`))
	assert.Equal(t, "nil\n", out.String())
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(newSession(), WithRunnerTimeout(50*time.Millisecond))

	start := time.Now()
	err := r.RunString(context.Background(), "spin", `while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_CancelledContext(t *testing.T) {
	r := NewRunner(newSession())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RunString(ctx, "cancelled", `print(1)`)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_RunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upper.lua")
	script := `for n = 0, tt.count() - 1 do tt.replace(n, string.upper(tt.line(n))) end`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	sess := newSession("ab", "cd")
	logger := &recordingLogger{}
	r := NewRunner(sess, WithRunnerLogger(logger))

	require.NoError(t, r.RunFile(context.Background(), path))
	assert.Equal(t, []string{"AB", "CD"}, sess.Buffer().Lines())
	assert.Equal(t, 2, sess.Timeline().Head())
	assert.Len(t, logger.msgs, 2)

	err := r.RunFile(context.Background(), filepath.Join(dir, "missing.lua"))
	var scriptErr *ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Contains(t, scriptErr.Error(), "missing.lua")
}

func TestRunner_SyntaxError(t *testing.T) {
	r := NewRunner(newSession())
	err := r.RunString(context.Background(), "syntax", `if then`)
	var scriptErr *ScriptError
	assert.ErrorAs(t, err, &scriptErr)
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.DoString(context.Background(), "x = 1"), ErrStateClosed)
	assert.Equal(t, "nil", s.GetGlobal("x").String())
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) {
	l.msgs = append(l.msgs, msg)
}
