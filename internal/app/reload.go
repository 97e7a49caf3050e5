package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/dshills/ghostline/internal/config"
	"github.com/dshills/ghostline/internal/inline"
	"github.com/dshills/ghostline/internal/logging"
)

// watchConfig applies configuration file changes that are safe to change
// while editing: the debounce delay and the log level.
func (app *Application) watchConfig(ctx context.Context, sched inline.Scheduler, engine *inline.Engine) {
	if app.opts.ConfigPath == "" {
		return
	}
	err := config.Watch(ctx, app.opts.ConfigPath, func(cfg *config.Config, err error) {
		sched.Post(func() { app.applyReload(cfg, err, engine) })
	})
	switch {
	case errors.Is(err, fs.ErrNotExist):
		app.logger.Debug("config directory missing, not watching", "path", app.opts.ConfigPath)
	case err != nil:
		app.logger.Warn("config watch stopped", "path", app.opts.ConfigPath, "error", err)
	}
}

// applyReload runs on the editor loop.
func (app *Application) applyReload(cfg *config.Config, err error, engine *inline.Engine) {
	if err != nil {
		app.logger.Warn("config reload failed", "error", err)
		return
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	if lvl, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		app.logger.SetLevel(lvl)
	}
	engine.SetDelay(cfg.Completion.Delay.Std())
	app.cfg.Completion.Delay = cfg.Completion.Delay
	app.cfg.Log.Level = cfg.Log.Level
	app.logger.Info("config reloaded",
		"file", filepath.Base(app.opts.ConfigPath),
		"delay", cfg.Completion.Delay,
		"level", app.logger.Level().String(),
	)
}
