// Package coordinator keeps the shared store in sync with a SpoolmanSync
// server.
//
// A refresh is two sequential requests (printers, then spools) published to
// the store in a single update. Refreshes run on a fixed interval (30 seconds
// by default) and whenever RequestRefresh is called, which entities do after
// every write. There is no retry or backoff: a failed refresh is wrapped in
// ErrUpdateFailed, recorded on the store for the UI to show, and the next
// tick simply tries again.
//
// The first failure after a healthy period is logged at error level, repeats
// at debug, and the recovery at info.
package coordinator
