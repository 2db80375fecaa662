// Package app provides the orchestration layer for spoolsync.
//
// # Overview
//
// This package wires together configuration, logging, the SpoolmanSync
// client, the coordinator, the tray entities and the UI. It is the
// composition root where all dependencies are initialized and connected.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.LoadDotEnv()  Optional .env overrides
//	       ├─────> config.Load()        TOML config + SPOOLSYNC_* env
//	       ├─────> logging.New()        logrus to the log file
//	       ├─────> ui.RunSetup()        Only when no URL is configured
//	       ├─────> spoolman.NewClient() HTTP client
//	       ├─────> FirstRefresh()       Synchronous first fetch
//	       ├─────> coordinator.Start()  Background refresh loop
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Refresh Loop
//
//	┌─────────────────────────────────────────┐
//	│ coordinator.Start() goroutine           │
//	│  ├─> FetchPrinters()                    │
//	│  ├─> FetchSpools()                      │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// The loop runs every 30 seconds by default and immediately after every
// tray write. The UI reads snapshots at its own one second tick.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid config file or SPOOLSYNC_* values
//   - Log file cannot be opened
//   - Setup aborted by the user
//
// Recoverable errors (logged, refreshing continues):
//   - First refresh failure ("not ready")
//   - Periodic refresh failures
//   - Assign and unassign failures
//
// # Headless Setup
//
// Setup probes a URL and saves it without starting the TUI:
//
//	cfg, err := app.Setup(ctx, app.Options{URL: "http://192.168.0.34:3000"})
package app
