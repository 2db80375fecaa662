// Package state holds the latest SpoolmanSync data shared between the
// refresh coordinator and its consumers.
//
// # Overview
//
// The coordinator is the single writer: after fetching printers and spools it
// calls Update once, so readers never observe printers from one poll paired
// with spools from another. Entities and the UI read copies through Snapshot
// on their own schedule.
//
//	coordinator ── Update(data, err) ──> Store ── Snapshot() ──> entity / ui
//
// # Update Semantics
//
//	// Success: replace data, bump Version, clear the error
//	store.Update(data, nil)
//
//	// Failure: keep the old data, record the error, count the failure
//	store.Update(state.Data{}, err)
//
// Consumers compare Snapshot.Version to notice new data without diffing the
// payload, and use IsOffline to tell a single failed poll from an outage.
//
// # Copying
//
// Snapshot returns cloned printer and spool slices and a wrapped copy of the
// last error. Spool records are shared shallowly since nothing mutates them
// after decoding.
//
// The zero Store is ready to use.
package state
