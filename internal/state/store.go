package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/spoolsync/internal/spoolman"
)

// Data is the combined result of one successful refresh.
type Data struct {
	Printers []spoolman.Printer
	Spools   []spoolman.Spool
}

// Snapshot represents the latest data available to entities and the UI.
type Snapshot struct {
	Data                Data
	HasData             bool
	Version             uint64 // Incremented on every successful update
	LastUpdated         time.Time
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored data. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(data Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = now
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Data = cloneData(data)
	s.snapshot.HasData = true
	s.snapshot.Version++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = now
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = cloneData(s.snapshot.Data)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneData(data Data) Data {
	return Data{
		Printers: clonePrinters(data.Printers),
		Spools:   cloneSpools(data.Spools),
	}
}

func clonePrinters(printers []spoolman.Printer) []spoolman.Printer {
	if len(printers) == 0 {
		return nil
	}
	dup := make([]spoolman.Printer, len(printers))
	for i, p := range printers {
		dup[i] = p
		if len(p.AMSUnits) > 0 {
			dup[i].AMSUnits = make([]spoolman.AMSUnit, len(p.AMSUnits))
			for j, unit := range p.AMSUnits {
				dup[i].AMSUnits[j] = unit
				dup[i].AMSUnits[j].Trays = append([]spoolman.Tray(nil), unit.Trays...)
			}
		}
		if p.ExternalSpool != nil {
			tray := *p.ExternalSpool
			dup[i].ExternalSpool = &tray
		}
	}
	return dup
}

// cloneSpools copies the slice; spool fields are never mutated after decode
// so nested pointers and maps are shared.
func cloneSpools(spools []spoolman.Spool) []spoolman.Spool {
	if len(spools) == 0 {
		return nil
	}
	dup := make([]spoolman.Spool, len(spools))
	copy(dup, spools)
	return dup
}
