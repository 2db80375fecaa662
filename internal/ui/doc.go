// Package ui provides the terminal user interface for spoolsync.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. The root Model polls an entity.Source
// (normally the coordinator's state.Store) on a short tick and renders the
// tray entities produced by an entity.Platform. Writes go through
// entity.TraySelect so the UI never talks to the HTTP client directly.
//
// # Package Structure
//
//   - app.go: Model, Options, message loop and Run
//   - trays.go: tray table, selection and tray actions
//   - detail.go: sensor attributes for the selected tray
//   - picker.go: spool picker modal
//   - logs.go: tail of the spoolsync log file
//   - header.go: status bar and command bar
//   - setup.go: server URL form shown before the first run
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Trays View: every AMS and external tray with its spool, weight and
//     color; conflicting assignments are flagged
//   - Logs View: the log file written by the logging package, with
//     follow mode and regex search
//
// # Event Flow
//
//  1. Run() starts the program with the initial snapshot
//  2. tickMsg fetches a fresh snapshot; a new data version rediscovers trays
//  3. enter opens the picker; confirming runs TraySelect.SelectOption in a
//     command, which requests a coordinator refresh when it finishes
//  4. Context cancellation shuts the program down
//
// # Key Bindings
//
//   - enter/s: Choose a spool for the selected tray
//   - u/x: Empty the selected tray
//   - r: Refresh now
//   - H: Hide or show empty trays
//   - l/t: Logs or trays view
//   - /, n/N: Search the logs, next or previous match
//   - Tab: Cycle focus between table, detail and logs
//   - T: Cycle theme
//   - h/?: Help
//   - e or Ctrl+C: Exit
package ui
