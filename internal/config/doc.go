// Package config loads and saves the spoolsync configuration file.
//
// # Overview
//
// spoolsync needs one real setting, the SpoolmanSync server URL. The file
// also carries the poll interval and logging options.
//
// # Resolution Order
//
//  1. An explicit path if provided, otherwise ~/.config/spoolsync/config.toml
//  2. A missing file yields defaults with Configured=false
//  3. SPOOLSYNC_* environment variables override file values
//
// Callers may seed the environment from a .env file with LoadDotEnv before
// calling Load; variables already set in the process win.
//
// # File Format
//
//	url = "http://192.168.0.34:3000"
//	poll_seconds = 30
//	log_file = "~/.local/state/spoolsync/spoolsync.log"
//	log_level = "info"
//
// # Environment
//
//   - SPOOLSYNC_URL: server URL
//   - SPOOLSYNC_POLL_SECONDS: refresh interval, positive integer
//   - SPOOLSYNC_LOG_LEVEL: logrus level name, or off/none
//   - SPOOLSYNC_LOG_FILE: log destination
//
// URLs are stored without trailing slashes. Paths starting with ~ are
// expanded against the user's home directory.
//
// Save is used by the setup flow once the server has answered the
// connectivity probe.
package config
