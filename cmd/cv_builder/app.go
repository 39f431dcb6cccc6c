package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonathan/cv-builder/internal/browser"
	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/notify"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	store       *store.Store
	exports     *export.Service
	registry    *rendering.Registry
	broadcaster *notify.Broadcaster
	recorder    *notify.Recorder
	notifier    notify.Notifier
	metrics     *metrics.Metrics
	browser     *browser.Browser
	printer     *observability.Printer
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storageBackend != "" {
		cfg.StorageBackend = storageBackend
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !rendering.Exists(cfg.Template) {
		return nil, fmt.Errorf("config error: unknown template %q", cfg.Template)
	}
	return cfg, nil
}

// openApp wires logging, storage, the store and the export service.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogEnv, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := storage.Open(ctx, storage.Options{
		Kind:        storage.Kind(cfg.StorageBackend),
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		registry:    rendering.MustDefault(),
		broadcaster: notify.NewBroadcaster(),
		recorder:    &notify.Recorder{},
		metrics:     metrics.New(),
	}
	a.notifier = notify.Multi{notify.NewLogNotifier(logger), a.broadcaster, a.recorder}

	initial := types.DefaultPreferences()
	initial.TemplateID = cfg.Template
	initial.Language = cfg.Language
	initial.AccentColor = cfg.AccentColor

	a.store, err = store.Open(ctx, backend, store.Config{
		Logger:             logger,
		Notifier:           a.notifier,
		Metrics:            a.metrics,
		TemplateExists:     rendering.Exists,
		InitialPreferences: &initial,
	})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	opts := export.Options{
		Registry: a.registry,
		Notifier: a.notifier,
		Metrics:  a.metrics,
		Logger:   logger,
	}
	if cfg.UseBrowser {
		if browser.Available(cfg.ChromePath) {
			a.browser = browser.New(context.WithoutCancel(ctx), browser.Options{
				ExecPath: cfg.ChromePath,
				Timeout:  cfg.ChromeTimeout,
				Logger:   logger,
			})
			opts.Measurer = a.browser
			opts.Printer = a.browser
		} else {
			logger.Warn("headless browser not found; using estimated pagination and no PDF export",
				zap.String("chrome_path", cfg.ChromePath))
		}
	}
	a.exports = export.NewService(a.store, opts)

	out := io.Discard
	if cfg.Verbose {
		out = cmd.ErrOrStderr()
	}
	a.printer = observability.NewPrinter(out)

	return a, nil
}

// close flushes pending writes and releases the browser and the backend.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.store.Close(ctx)
	if a.browser != nil {
		a.browser.Close()
	}
	_ = a.logger.Sync()
	return err
}

// withApp opens the app, runs fn and closes the app, keeping the first error.
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to save changes: %w", cerr)
		}
	}()
	if err := fn(a); err != nil {
		return err
	}
	return a.firstError()
}

// firstError turns a background failure reported through the notifier into a command error.
func (a *app) firstError() error {
	errs := a.recorder.Errors()
	if len(errs) == 0 {
		return nil
	}
	n := errs[0]
	if n.Detail != "" {
		return fmt.Errorf("%s: %s", n.Message, n.Detail)
	}
	return errors.New(n.Message)
}
