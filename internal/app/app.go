package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/spoolsync/internal/config"
	"github.com/five82/spoolsync/internal/coordinator"
	"github.com/five82/spoolsync/internal/entity"
	"github.com/five82/spoolsync/internal/logging"
	"github.com/five82/spoolsync/internal/prefs"
	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
	"github.com/five82/spoolsync/internal/ui"
)

const probeTimeout = 10 * time.Second

// ErrCannotConnect reports a failed setup probe.
var ErrCannotConnect = errors.New("cannot_connect")

// Options configure the spoolsync application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/spoolsync/prefs.toml
	EnvFile    string // empty loads ./.env when present
	PollEvery  int    // seconds; zero uses the configured interval
	URL        string // overrides the configured server URL
	Setup      bool   // show the setup form even when a URL is configured
}

// runtime is everything Run wires together before the UI starts.
type runtime struct {
	client      *spoolman.Client
	store       *state.Store
	coordinator *coordinator.Coordinator
	platform    *entity.Platform
}

// Run boots the spoolsync TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.WithError(err).Warn("load preferences")
	}

	if !cfg.Configured || opts.Setup {
		url, err := ui.RunSetup(ui.SetupOptions{
			Context:   ctx,
			URL:       cfg.URL,
			ThemeName: userPrefs.Theme,
			Probe:     Probe,
		})
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		cfg.URL = config.NormalizeURL(url)
		if err := config.Save(cfg.Path, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.WithField("url", cfg.URL).Info("spoolmansync configured")
	}

	// Cancelling the entry context stops the refresh loop when the UI exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := start(ctx, cfg, logger)
	if err != nil {
		return err
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Source:    rt.store,
		Refresher: rt.coordinator,
		Platform:  rt.platform,
		ServerURL: rt.client.BaseURL(),
		LogPath:   logger.Path(),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Log:       logger.Logger,
	})
}

// start builds the client, coordinator and entity platform, performs the
// first refresh and launches the refresh loop. A failed first refresh is
// logged and left to the loop to recover from.
func start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*runtime, error) {
	client, err := spoolman.NewClient(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("init spoolmansync client: %w", err)
	}

	store := &state.Store{}
	coord := coordinator.New(client, store, cfg.PollInterval(), logger.Logger)

	entry := logger.WithFields(logrus.Fields{
		"url":      client.BaseURL(),
		"interval": cfg.PollInterval().String(),
	})
	if err := coord.FirstRefresh(ctx); err != nil {
		entry.WithError(err).Warn("spoolmansync not ready, retrying in background")
	} else {
		entry.Info("spoolmansync connected")
	}
	coord.Start(ctx)

	return &runtime{
		client:      client,
		store:       store,
		coordinator: coord,
		platform:    entity.NewPlatform(store, client, coord, logger.Logger),
	}, nil
}

// Setup validates url against the server and saves it without starting the
// TUI.
func Setup(ctx context.Context, opts Options) (config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return config.Config{}, err
	}
	url := config.NormalizeURL(opts.URL)
	if url == "" {
		return config.Config{}, fmt.Errorf("setup: a server url is required")
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := Probe(ctx, url); err != nil {
		return config.Config{}, err
	}

	cfg.URL = url
	cfg.Configured = true
	if err := config.Save(cfg.Path, cfg); err != nil {
		return config.Config{}, fmt.Errorf("save config: %w", err)
	}
	return cfg, nil
}

// Probe checks that a SpoolmanSync server answers GET /api/settings with 200.
// Every failure is reported as ErrCannotConnect.
func Probe(ctx context.Context, url string) error {
	client, err := spoolman.NewClient(url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotConnect, err)
	}
	if err := client.CheckConnection(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotConnect, err)
	}
	return nil
}

// loadConfig reads .env, the config file and command-line overrides.
func loadConfig(opts Options) (config.Config, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if url := strings.TrimSpace(opts.URL); url != "" {
		cfg.URL = config.NormalizeURL(url)
		cfg.Configured = true
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}
	return cfg, nil
}
