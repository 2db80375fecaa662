package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/spoolsync/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/spoolsync/config.toml)")
	envFile := flag.String("env", "", "load environment overrides from this file (optional, defaults to ./.env)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to 30s)")
	serverURL := flag.String("url", "", "SpoolmanSync server URL (optional, overrides config)")
	setup := flag.Bool("setup", false, "run setup; with -url, probe and save without starting the TUI")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
		URL:        *serverURL,
		Setup:      *setup,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if opts.Setup && opts.URL != "" {
		cfg, err := app.Setup(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "spoolsync: %v\n", err)
			return 1
		}
		fmt.Printf("saved %s to %s\n", cfg.URL, cfg.Path)
		return 0
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "spoolsync: %v\n", err)
		return 1
	}
	return 0
}
