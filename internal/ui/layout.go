package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width to show the detail pane beside
	// the tray table instead of below it.
	LayoutSplitWidth = 120

	// LayoutWeightWidth is the minimum width to show the weight column.
	LayoutWeightWidth = 80
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read from the file.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is the minimum time between log file reads.
	LogRefreshInterval = 2 * time.Second

	// WriteTimeout bounds a single assign or unassign call.
	WriteTimeout = 15 * time.Second

	// ProbeTimeout bounds the setup connection check.
	ProbeTimeout = 10 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)

// lowWeightGrams marks a spool as running low.
const lowWeightGrams = 100.0
