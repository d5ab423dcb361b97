package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/clockin/internal/adapters/capture"
	"github.com/xvierd/clockin/internal/adapters/git"
	"github.com/xvierd/clockin/internal/adapters/notification"
	"github.com/xvierd/clockin/internal/adapters/storage"
	"github.com/xvierd/clockin/internal/config"
	"github.com/xvierd/clockin/internal/ports"
	"github.com/xvierd/clockin/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *log.Logger
	logFile  io.Closer
	storage  ports.Storage
	notifier *notification.Notifier
	tasks    *services.TaskService
	tracker  *services.Tracker
	state    *services.StateService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logFile, err := openLogger(cfg)
	if err != nil {
		return err
	}

	path := dbPath
	if path == "" {
		path = config.GetDBPath(cfg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		_ = logFile.Close()
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.New(path)
	if err != nil {
		_ = logFile.Close()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps, err := buildApp(ctx, cfg, store, logger)
	if err != nil {
		_ = store.Close()
		_ = logFile.Close()
		return err
	}
	deps.logFile = logFile
	app = deps

	logger.Debug("services initialized", "db", path)
	return nil
}

// loadConfig reads --config when given, the default file otherwise. A
// broken config file is not fatal; the defaults are used instead.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
		cfg.Storage.DataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".clockin"), nil
}

// openLogger writes structured logs to the log file; the terminal belongs
// to the TUI.
func openLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	path := config.GetLogPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "clockin",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
	}
	logger.SetLevel(level)
	return logger, f, nil
}

// trackerConfig maps the config file onto the tracker cadences.
func trackerConfig(cfg *config.Config) services.TrackerConfig {
	wd, _ := os.Getwd()
	return services.TrackerConfig{
		TickInterval:       time.Duration(cfg.Timer.TickInterval),
		KeyboardInterval:   time.Duration(cfg.Activity.KeyboardInterval),
		MouseInterval:      time.Duration(cfg.Activity.MouseInterval),
		ScreenshotMaxDelay: time.Duration(cfg.Activity.ScreenshotMaxDelay),
		HistoryLimit:       cfg.Activity.HistoryLimit,
		WorkingDir:         wd,
	}
}

// buildApp wires the services over an opened store and loads the task
// hierarchy.
func buildApp(ctx context.Context, cfg *config.Config, store ports.Storage, logger *log.Logger) (appDeps, error) {
	tasks := services.NewTaskService(store.Tasks(), logger)
	if _, err := tasks.Load(ctx); err != nil {
		return appDeps{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	shotDir := ""
	if cfg.Activity.SaveScreenshots {
		shotDir = config.GetScreenshotDir(cfg)
	}
	notifier := notification.New(&cfg.Notifications)

	tracker := services.NewTracker(tasks, trackerConfig(cfg),
		services.WithStorage(store),
		services.WithCapturer(capture.NewPlaceholder(shotDir)),
		services.WithNotifier(notifier),
		services.WithGitDetector(git.NewDetector("")),
		services.WithLogger(logger),
	)

	return appDeps{
		config:   cfg,
		logger:   logger,
		storage:  store,
		notifier: notifier,
		tasks:    tasks,
		tracker:  tracker,
		state:    services.NewStateService(store, tasks, tracker),
	}, nil
}

// cleanupServices stops a running session so its time is persisted, then
// closes all resources.
func cleanupServices() error {
	if app.tracker != nil {
		if app.tracker.Timer().IsRunning {
			if rec, err := app.tracker.Stop(context.Background()); err != nil {
				app.logger.Error("failed to save session on exit", "err", err)
			} else {
				app.logger.Info("session saved on exit", "key", rec.Key(), "elapsed_ms", rec.ElapsedTime)
			}
		}
		app.tracker.Close()
	}

	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
	app = appDeps{}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
