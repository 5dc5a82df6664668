package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/five82/intelwatch/internal/alert"
	"github.com/five82/intelwatch/internal/chatlog"
	"github.com/five82/intelwatch/internal/config"
	"github.com/five82/intelwatch/internal/logging"
	"github.com/five82/intelwatch/internal/logtail"
	"github.com/five82/intelwatch/internal/prefs"
	"github.com/five82/intelwatch/internal/settings"
	"github.com/five82/intelwatch/internal/state"
	"github.com/five82/intelwatch/internal/ui"
)

// Options configure the intelwatch application. Zero values fall back to the
// config file, the environment and then the built-in defaults.
type Options struct {
	ConfigPath   string
	EnvFile      string // empty uses ./.env
	PrefsPath    string // empty uses default ~/.config/intelwatch/prefs.toml
	LogDir       string
	SettingsPath string
	PollEvery    time.Duration
	Headless     bool
	Debug        bool
}

// LoadConfig resolves the effective configuration: .env, then the config
// file and environment, then the explicit options. The log directory must
// exist.
func LoadConfig(opts Options) (config.Config, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return config.Config{}, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithLogDir(opts.LogDir)
	if strings.TrimSpace(opts.SettingsPath) != "" {
		cfg.SettingsPath = opts.SettingsPath
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if err := cfg.ValidateLogDir(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Run boots intelwatch until the context is cancelled or the user quits the
// editor. Without a terminal, or with Headless set, only the poll loop runs.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	headless := opts.Headless || !isatty.IsTerminal(os.Stdout.Fd())
	logger, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Console: headless,
		Debug:   opts.Debug,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("intelwatch starting",
		zap.String("log_dir", cfg.LogDir),
		zap.String("settings", cfg.SettingsPath),
		zap.Duration("poll", cfg.PollInterval),
		zap.Bool("headless", headless))

	store := settings.NewStore(cfg.SettingsPath)
	created, loadErr := store.Load()
	if loadErr != nil {
		logger.Error("load settings failed", zap.String("path", cfg.SettingsPath), zap.Error(loadErr))
	}

	userPrefs := prefs.Default()
	if !headless {
		p, err := prefs.Load(opts.PrefsPath)
		if err != nil {
			logger.Warn("load prefs failed, using defaults", zap.Error(err))
		}
		userPrefs = p
	}

	player := alert.NewPlayer(newSounder(cfg, headless), logger)
	player.SetMuted(userPrefs.Muted)
	defer player.Wait()
	if created {
		logger.Info("created settings file", zap.String("path", cfg.SettingsPath))
		player.Play()
	}

	activity := &state.Store{}
	poller := NewPoller(PollerOptions{
		Dir:      cfg.LogDir,
		Settings: store,
		Alerter:  player,
		Store:    activity,
		Logger:   logger,
		Interval: cfg.PollInterval,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.WatchFS {
		if err := watchDir(ctx, cfg.LogDir, poller, logger); err != nil {
			logger.Warn("directory watch unavailable, polling only", zap.Error(err))
		}
	}

	if headless {
		poller.Run(ctx)
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	uiOpts := ui.Options{
		Context:   ctx,
		Cancel:    cancel,
		Settings:  store,
		Activity:  activity,
		Player:    player,
		Logger:    logger,
		LogDir:    cfg.LogDir,
		PollTick:  cfg.PollInterval,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		OnChange:  poller.Nudge,
	}
	if loadErr != nil {
		uiOpts.Status = "Settings not loaded: " + loadErr.Error()
		uiOpts.StatusErr = true
	}
	err = ui.Run(uiOpts)
	cancel()
	wg.Wait()
	return err
}

// newSounder picks the configured alert command, falling back to the
// terminal bell. With the editor running the bell goes to stderr so it does
// not interleave with the rendered screen.
func newSounder(cfg config.Config, headless bool) alert.Sounder {
	if len(cfg.AlertCommand) > 0 {
		return alert.CommandSounder{Args: cfg.AlertCommand}
	}
	if headless {
		return alert.BellSounder{W: os.Stdout}
	}
	return alert.BellSounder{W: os.Stderr}
}

// ListOptions configure ListFiles.
type ListOptions struct {
	Options
	// Lines shows the last n lines of each file when positive.
	Lines int
}

// ListFiles prints the chat logs the poll loop would monitor for the current
// channel list, optionally followed by their last lines.
func ListFiles(w io.Writer, opts ListOptions) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}

	store := settings.NewStore(cfg.SettingsPath)
	if _, err := store.Load(); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	snap := store.Snapshot()
	if len(snap.Channels) == 0 {
		_, err := fmt.Fprintf(w, "no channels configured in %s\n", cfg.SettingsPath)
		return err
	}

	files, err := chatlog.ListMonitored(cfg.LogDir, snap.Channels)
	if err != nil {
		return fmt.Errorf("list log files: %w", err)
	}
	if len(files) == 0 {
		_, err := fmt.Fprintf(w, "no chat logs in %s for %s\n", cfg.LogDir, strings.Join(snap.Channels, ", "))
		return err
	}

	for _, f := range files {
		if _, err := fmt.Fprintf(w, "%-20s %s  %s\n", f.Channel, f.Created.Format(time.DateTime), f.Name); err != nil {
			return err
		}
		if opts.Lines <= 0 {
			continue
		}
		lines, err := logtail.Last(f.Path, opts.Lines)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
		for _, line := range lines {
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}
