package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/ttedit/internal/config"
	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/session"
	luaplugin "github.com/dshills/ttedit/internal/plugin/lua"
	"github.com/dshills/ttedit/internal/project/filestore"
	"github.com/dshills/ttedit/internal/project/vfs"
	"github.com/dshills/ttedit/internal/project/watcher"
	"github.com/dshills/ttedit/internal/shell"
)

// Application owns the session for one file and the components around it.
type Application struct {
	mu sync.Mutex

	cfg    config.Config
	logger *Logger

	store   *filestore.Store
	doc     *filestore.Document
	session *session.Session
	scripts *luaplugin.Runner
	shell   *shell.Shell

	closeLog func() error
	watch    *watcher.FileWatcher

	running atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// Path is the file to edit.
	Path string

	// ConfigPath is an explicit configuration file. Empty uses the default
	// location, where a missing file is not an error.
	ConfigPath string

	// ConfigOptions are passed to config.Load after ConfigPath.
	ConfigOptions []config.Option

	// LogLevel and LogFile override the configured logging settings.
	LogLevel string
	LogFile  string

	// Debug forces the debug log level.
	Debug bool

	// Script is a Lua script run before the shell starts.
	Script string

	// NoWatch disables the external change watcher.
	NoWatch bool

	// ReadOnly rejects edits, checkouts and saves.
	ReadOnly bool

	// FS is the file system files are loaded from. Defaults to the OS.
	FS vfs.VFS

	// Stdin, Stdout and Stderr default to the process streams. Logs go to
	// Stderr unless a log file is configured.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive overrides terminal detection for the shell.
	Interactive *bool
}

// New loads configuration and the file and builds the session and shell.
func New(ctx context.Context, opts Options) (*Application, error) {
	if opts.Path == "" {
		return nil, ErrNoFile
	}
	if opts.FS == nil {
		opts.FS = vfs.NewOSFS()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	if err := app.initConfig(); err != nil {
		return err
	}
	if err := app.initLogger(); err != nil {
		return err
	}
	if err := app.initDocument(ctx); err != nil {
		return err
	}
	app.initSession()
	app.initShell()
	return nil
}

func (app *Application) initConfig() error {
	cfgOpts := []config.Option{config.WithFile(app.opts.ConfigPath)}
	cfgOpts = append(cfgOpts, app.opts.ConfigOptions...)

	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		target := app.opts.ConfigPath
		if target == "" {
			target = config.DefaultPath()
		}
		return NewOperationError("load config", target, err)
	}

	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		cfg.Logging.File = app.opts.LogFile
	}
	if app.opts.Debug {
		cfg.Logging.Level = "debug"
	}
	if app.opts.NoWatch {
		cfg.Watch.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		opErr := NewOperationError("load config", cfg.Source, err)
		opErr.FromFlags = true
		return opErr
	}

	app.cfg = cfg
	return nil
}

func (app *Application) initLogger() error {
	out, closeFn := app.opts.Stderr, func() error { return nil }
	if app.cfg.Logging.File != "" {
		w, c, err := openLogOutput(app.cfg.Logging.File)
		if err != nil {
			return NewOperationError("open log", app.cfg.Logging.File, err)
		}
		out, closeFn = w, c
	}
	app.closeLog = closeFn

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(app.cfg.Logging.Level)
	logCfg.Output = out
	app.logger = NewLogger(logCfg)
	if app.cfg.Source != "" {
		app.logger.Debug("configuration loaded from %s", app.cfg.Source)
	}
	return nil
}

func (app *Application) initDocument(ctx context.Context) error {
	app.store = filestore.NewStore(app.opts.FS,
		filestore.WithBackupSuffix(app.cfg.Editor.BackupSuffix),
		filestore.WithMaxFileSize(app.cfg.Editor.MaxFileSize),
		filestore.WithCreateMissing(app.cfg.Editor.CreateMissing && !app.opts.ReadOnly),
	)

	doc, err := app.store.Load(ctx, app.opts.Path)
	if err != nil {
		return NewOperationError("open", app.opts.Path, err)
	}
	if app.opts.ReadOnly {
		doc.SetReadOnly(true)
	}
	app.doc = doc

	if !doc.Existed {
		if app.opts.FS.Exists(doc.Path) {
			fmt.Fprintln(app.opts.Stdout, "File not found. Creating new empty file.")
		} else {
			fmt.Fprintln(app.opts.Stdout, "File not found. Starting with an empty buffer.")
		}
	}

	app.logger.WithComponent("filestore").WithFields(map[string]any{
		"path":    doc.Path,
		"lines":   doc.Original.Len(),
		"eol":     doc.LineEnding,
		"existed": doc.Existed,
	}).Info("loaded file")
	return nil
}

func (app *Application) initSession() {
	var opts []session.Option
	if app.opts.ReadOnly {
		opts = append(opts, session.WithReadOnly())
	}
	app.session = session.New(app.doc.Original, opts...)

	log := app.logger.WithComponent("session").WithField("session", app.session.ID())
	app.session.OnCommit(func(c session.Commit) {
		log.Debug("snapshot %d %q (%d lines)", c.Index, c.Label, c.Lines)
	})

	app.scripts = luaplugin.NewRunner(app.session,
		luaplugin.WithRunnerOutput(app.opts.Stdout),
		luaplugin.WithRunnerLogger(app.logger.WithComponent("lua")),
	)
}

func (app *Application) initShell() {
	shellOpts := []shell.Option{
		shell.WithPrompt(app.cfg.Editor.Prompt),
		shell.WithConfirmDelete(app.cfg.Editor.ConfirmDelete),
		shell.WithPlayDelay(app.cfg.Editor.PlayDelay),
		shell.WithLabelWidth(app.cfg.Editor.LabelWidth),
		shell.WithSaver(&documentSaver{
			store: app.store,
			doc:   app.doc,
			log:   app.logger.WithComponent("filestore"),
		}),
		shell.WithScriptRunner(app.scripts),
		shell.WithLogger(app.logger.WithComponent("shell")),
	}
	if app.opts.Interactive != nil {
		shellOpts = append(shellOpts, shell.WithInteractive(*app.opts.Interactive))
	}
	app.shell = shell.New(app.session, app.opts.Stdin, app.opts.Stdout, shellOpts...)
}

// Run runs the startup script, if any, then the shell until it exits.
// Cancellation of ctx is not an error.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.cfg.Watch.Enabled {
		app.startWatcher(ctx)
	}

	if app.opts.Script != "" {
		if err := app.scripts.RunFile(ctx, app.opts.Script); err != nil {
			app.logger.WithComponent("lua").Warn("startup script failed: %v", err)
			fmt.Fprintf(app.opts.Stdout, "Script error: %v\n", err)
		}
	}

	err := app.shell.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startWatcher watches the file and queues a notice when it changes on
// disk. Failure to watch is logged, not fatal.
func (app *Application) startWatcher(ctx context.Context) {
	w, err := watcher.New(app.doc.Path)
	if err != nil {
		app.logger.WithComponent("watcher").Warn("cannot watch %s: %v", app.doc.Path, err)
		return
	}

	app.mu.Lock()
	app.watch = w
	app.mu.Unlock()

	log := app.logger.WithComponent("watcher")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				app.handleFileEvent(log, ev)
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("watch error: %v", err)
			}
		}
	}()
}

func (app *Application) handleFileEvent(log *Logger, ev watcher.Event) {
	log.Debug("event %s on %s", ev.Op, ev.Path)

	if !app.opts.FS.Exists(app.doc.Path) {
		if app.doc.Existed || !app.doc.DiskModTime().IsZero() {
			app.shell.Notify("Warning: file was removed or renamed on disk.")
		}
		return
	}

	changed, err := app.store.CheckExternalChange(app.doc)
	if err != nil {
		log.Warn("checking %s: %v", app.doc.Path, err)
		return
	}
	if changed {
		app.shell.Notify("Warning: file changed on disk since it was loaded.")
	}
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Session returns the edit session.
func (app *Application) Session() *session.Session {
	return app.session
}

// Document returns the loaded document.
func (app *Application) Document() *filestore.Document {
	return app.doc
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return NullLogger
	}
	return app.logger
}

// Close stops the watcher and closes the log file.
func (app *Application) Close() error {
	app.mu.Lock()
	w := app.watch
	app.watch = nil
	closeLog := app.closeLog
	app.closeLog = nil
	app.mu.Unlock()

	var errs []error
	if w != nil {
		errs = append(errs, w.Close())
	}
	if closeLog != nil {
		errs = append(errs, closeLog())
	}
	return errors.Join(errs...)
}

// documentSaver saves the working buffer to the loaded document.
type documentSaver struct {
	store *filestore.Store
	doc   *filestore.Document
	log   *Logger
}

func (s *documentSaver) Save(ctx context.Context, content buffer.LineBuffer) (filestore.SaveResult, error) {
	res, err := s.store.Save(ctx, s.doc, content)
	if err != nil {
		s.log.Error("save %s: %v", s.doc.Path, err)
		return res, err
	}
	if res.BackupErr != nil {
		s.log.Warn("backup %s: %v", res.BackupPath, res.BackupErr)
	}
	s.log.WithFields(map[string]any{
		"path":   res.Path,
		"bytes":  res.Bytes,
		"backup": res.BackupWritten,
	}).Info("saved")
	return res, nil
}
