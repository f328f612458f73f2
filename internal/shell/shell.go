// Package shell is the interactive front end of the editor.
//
// A Shell reads one command per line, applies it to an edit session and
// prints the result. Parsing is done by ParseCommand, which needs no
// terminal and is tested on its own; the Shell only dispatches parsed
// commands and renders their output.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/session"
	"github.com/dshills/ttedit/internal/engine/timeline"
	"github.com/dshills/ttedit/internal/project/filestore"
)

// errQuit is returned by the q handler to end Run.
var errQuit = errors.New("quit")

// Saver writes the session's current content to its file.
type Saver interface {
	Save(ctx context.Context, content buffer.LineBuffer) (filestore.SaveResult, error)
}

// ScriptRunner runs a script file against the session.
type ScriptRunner interface {
	RunFile(ctx context.Context, path string) error
}

// Logger receives debug output about executed commands.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Default settings for a Shell.
const (
	DefaultPrompt     = "tt> "
	DefaultPlayDelay  = 600 * time.Millisecond
	DefaultLabelWidth = 60
)

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the command prompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithConfirmDelete controls whether d asks for confirmation.
func WithConfirmDelete(confirm bool) Option {
	return func(s *Shell) {
		s.confirmDelete = confirm
	}
}

// WithPlayDelay sets the default pause between snapshots during play.
func WithPlayDelay(d time.Duration) Option {
	return func(s *Shell) {
		if d >= 0 {
			s.playDelay = d
		}
	}
}

// WithLabelWidth sets the width labels are truncated to in the timeline.
func WithLabelWidth(width int) Option {
	return func(s *Shell) {
		if width > 0 {
			s.labelWidth = width
		}
	}
}

// WithInteractive overrides terminal detection. Prompts and the banner are
// only printed in interactive mode.
func WithInteractive(interactive bool) Option {
	return func(s *Shell) {
		s.interactive = interactive
	}
}

// WithSaver enables the save command.
func WithSaver(saver Saver) Option {
	return func(s *Shell) {
		s.saver = saver
	}
}

// WithScriptRunner enables the source command.
func WithScriptRunner(runner ScriptRunner) Option {
	return func(s *Shell) {
		s.scripts = runner
	}
}

// WithLogger sets the logger for command tracing.
func WithLogger(l Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.log = l
		}
	}
}

// lineResult is one line read from the input.
type lineResult struct {
	text string
}

// Shell is the interactive command loop over a session.
type Shell struct {
	session *session.Session
	in      io.Reader
	out     io.Writer

	prompt        string
	confirmDelete bool
	playDelay     time.Duration
	labelWidth    int
	interactive   bool

	saver   Saver
	scripts ScriptRunner
	log     Logger

	handlers map[string]func(ctx context.Context, cmd Command) error

	// Input is read on its own goroutine so a blocked read never delays
	// cancellation.
	readerOnce sync.Once
	lines      chan lineResult
	readErr    error

	noticeMu sync.Mutex
	notices  []string
}

// New creates a Shell reading commands from in and writing to out.
func New(sess *session.Session, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		session:       sess,
		in:            in,
		out:           out,
		prompt:        DefaultPrompt,
		confirmDelete: true,
		playDelay:     DefaultPlayDelay,
		labelWidth:    DefaultLabelWidth,
		interactive:   IsTerminal(in),
		log:           nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerHandlers()
	return s
}

// Notify queues a message to be printed before the next prompt.
// It is safe to call from any goroutine.
func (s *Shell) Notify(msg string) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	s.notices = append(s.notices, msg)
}

func (s *Shell) flushNotices() {
	s.noticeMu.Lock()
	notices := s.notices
	s.notices = nil
	s.noticeMu.Unlock()

	for _, n := range notices {
		fmt.Fprintln(s.out, n)
	}
}

// Run processes commands until q, end of input or cancellation of ctx.
// End of input and q return nil; cancellation returns ctx.Err().
func (s *Shell) Run(ctx context.Context) error {
	if s.interactive {
		fmt.Fprintln(s.out, "Simple Time-Travel Editor")
		fmt.Fprint(s.out, HelpText())
		fmt.Fprintln(s.out)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.flushNotices()

		line, err := s.ask(ctx, s.prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			switch {
			case errors.Is(err, errQuit):
				return nil
			case errors.Is(err, io.EOF):
				return nil
			default:
				return err
			}
		}
	}
}

// Execute parses and runs a single command line. User errors are printed,
// not returned; the returned error is io.EOF when input ended during a
// follow-up prompt, the context's error, or errQuit after q.
func (s *Shell) Execute(ctx context.Context, line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return nil
	}
	if cmd.Name == "" {
		return nil
	}

	s.log.Debug("command %q args=%v", cmd.Name, cmd.Args)
	return s.handlers[cmd.Name](ctx, cmd)
}

// ask prints prompt in interactive mode and reads one line.
func (s *Shell) ask(ctx context.Context, prompt string) (string, error) {
	if s.interactive {
		fmt.Fprint(s.out, prompt)
	}
	return s.readLine(ctx)
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	s.readerOnce.Do(s.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-s.lines:
		if !ok {
			return "", s.readErr
		}
		return r.text, nil
	}
}

// startReader feeds input lines into s.lines and closes it, with readErr
// set, when the input fails or ends.
func (s *Shell) startReader() {
	s.lines = make(chan lineResult)
	go func() {
		defer close(s.lines)
		br := newLineReader(s.in)
		for {
			text, err := br.next()
			if err != nil {
				s.readErr = err
				return
			}
			s.lines <- lineResult{text: text}
		}
	}()
}

// report prints err in the user-facing form.
func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, buffer.ErrLineOutOfRange):
		fmt.Fprintln(s.out, "Line number out of range.")
	case errors.Is(err, timeline.ErrIndexOutOfRange):
		fmt.Fprintln(s.out, "Index out of range.")
	case errors.Is(err, session.ErrReadOnly):
		fmt.Fprintln(s.out, "Session is read-only.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// confirm asks a y/N question. Only "y" (any case) confirms.
func (s *Shell) confirm(ctx context.Context, question string) (bool, error) {
	answer, err := s.ask(ctx, question)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

// lineReader splits input into lines without their terminators.
type lineReader struct {
	r    *bufio.Reader
	done bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line. A final line without a terminator is
// returned before io.EOF.
func (l *lineReader) next() (string, error) {
	if l.done {
		return "", io.EOF
	}
	text, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && text != "" {
			l.done = true
			return strings.TrimRight(text, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}
