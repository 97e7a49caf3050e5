// Package app wires the ghostline editor together. It loads configuration,
// opens the log, builds the completion backend, reads the file being edited
// and connects the inline completion engine to the terminal host.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/config"
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/inline"
	"github.com/dshills/ghostline/internal/keymap"
	"github.com/dshills/ghostline/internal/logging"
	"github.com/dshills/ghostline/internal/overlay"
	"github.com/dshills/ghostline/internal/terminal"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses config.DefaultPath.
	ConfigPath string

	// File is the file to edit. Empty opens a scratch buffer.
	File string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Provider overrides the configured completion provider when set.
	Provider string
}

// Application owns the editor's long-lived components.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	doc     *document.Document
	backend backend.Func
	keys    *keymap.Keymap
	style   overlay.Style

	// backendErr is shown once the host is up when the provider could not
	// be built.
	backendErr error

	closeOnce sync.Once
}

// New loads configuration and prepares everything that does not need a
// screen.
func New(opts Options) (*Application, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	cfg, err := LoadConfig(app.opts)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	app.logger, err = logging.New(logging.Options{
		Level:    cfg.Log.Level,
		File:     cfg.Log.File,
		JSONFile: cfg.Log.JSONFile,
	})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	app.keys, err = keymap.Default(keymap.CompletionKeys{
		Accept:     cfg.Keys.Accept,
		AcceptWord: cfg.Keys.AcceptWord,
		Trigger:    cfg.Keys.Trigger,
		Dismiss:    cfg.Keys.Dismiss,
	})
	if err != nil {
		return &InitError{Component: "keymap", Err: err}
	}

	app.style, err = overlay.ParseStyle(cfg.UI.GhostColor, cfg.UI.Background)
	if err != nil {
		return &InitError{Component: "ui", Err: err}
	}

	app.doc, err = OpenDocument(app.opts.File)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}

	bcfg := cfg.BackendConfig()
	app.backend, err = backend.New(bcfg)
	if err != nil {
		// Editing still works without completion.
		app.logger.Warn("completion backend unavailable", "provider", bcfg.Provider, "error", err)
		app.backendErr = err
		app.backend = nil
	}

	app.logger.Info("ghostline started",
		"file", app.opts.File,
		"config", app.opts.ConfigPath,
		"provider", bcfg.Provider,
		"model", bcfg.Model,
	)
	return nil
}

// LoadConfig loads the configuration file and applies opts overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Provider != "" {
		cfg.Backend.Provider = opts.Provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenDocument reads path into a document. A missing file yields an empty
// document that is created on first save.
func OpenDocument(path string) (*document.Document, error) {
	if path == "" {
		return document.New(""), nil
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return document.New(""), nil
	case err != nil:
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	return document.New(string(data)), nil
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Document returns the document being edited.
func (app *Application) Document() *document.Document {
	return app.doc
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger.Logger
}

// Run edits the document on screen until the user quits or ctx is done.
// The screen must already be initialized; Run finalizes it.
func (app *Application) Run(ctx context.Context, screen tcell.Screen) error {
	defer screen.Fini()

	host := terminal.New(screen, app.doc, terminal.Options{
		Path:     app.opts.File,
		Keys:     app.keys,
		Style:    app.style,
		Logger:   app.logger.With("component", "terminal"),
		Autosave: app.cfg.Completion.Autosave.Std(),
	})

	engine, err := inline.Attach(app.doc, host,
		inline.WithBackend(app.backend),
		inline.WithDelay(app.cfg.Completion.Delay.Std()),
		inline.WithTimeout(app.cfg.Completion.Timeout.Std()),
		inline.WithSink(host),
		inline.WithNotifier(host),
		inline.WithLogger(app.logger.With("component", "inline")),
		inline.WithRendererOptions(overlay.WithOpacity(app.cfg.UI.Opacity)),
	)
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	defer engine.Detach()
	host.SetEngine(engine)

	if app.backendErr != nil {
		host.Notify(slog.LevelWarn, fmt.Sprintf("completion disabled: %v", app.backendErr))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go app.watchConfig(ctx, host, engine)

	if err := host.Run(ctx); err != nil {
		return err
	}
	app.logger.Info("ghostline stopped", "modified", host.Modified())
	return nil
}

// Close releases the log files. It is safe to call more than once.
func (app *Application) Close() {
	app.closeOnce.Do(func() {
		if app.logger != nil {
			_ = app.logger.Close()
		}
	})
}
