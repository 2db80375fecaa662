package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolsync/internal/spoolman"
)

func sampleData() Data {
	return Data{
		Printers: []spoolman.Printer{{
			Name: "X1C",
			AMSUnits: []spoolman.AMSUnit{{
				Name:  "AMS 1",
				Trays: []spoolman.Tray{{EntityID: "tray-1", TrayNumber: 1}},
			}},
			ExternalSpool: &spoolman.Tray{EntityID: "ext", TrayNumber: 0},
		}},
		Spools: []spoolman.Spool{{ID: 1}, {ID: 2}},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(sampleData(), nil)

	snap := s.Snapshot()
	require.True(t, snap.HasData)
	assert.Equal(t, uint64(1), snap.Version)
	require.Len(t, snap.Data.Spools, 2)
	assert.False(t, snap.LastUpdated.Before(before))
	assert.Equal(t, snap.LastUpdated, snap.LastSuccess)
	assert.NoError(t, snap.LastError)

	// Returned snapshot should be independent of the stored one.
	snap.Data.Spools[0].ID = 999
	snap.Data.Printers[0].AMSUnits[0].Trays[0].EntityID = "mutated"
	snap.Data.Printers[0].ExternalSpool.EntityID = "mutated"

	snap2 := s.Snapshot()
	assert.Equal(t, int64(1), snap2.Data.Spools[0].ID)
	assert.Equal(t, "tray-1", snap2.Data.Printers[0].AMSUnits[0].Trays[0].EntityID)
	assert.Equal(t, "ext", snap2.Data.Printers[0].ExternalSpool.EntityID)
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(sampleData(), nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Update(Data{}, origErr)

	snap := s.Snapshot()
	assert.True(t, snap.HasData)
	assert.Equal(t, prev.Version, snap.Version)
	assert.Len(t, snap.Data.Spools, 2)
	assert.Equal(t, prev.LastSuccess, snap.LastSuccess)
	require.Error(t, snap.LastError)
	assert.Equal(t, "boom", snap.LastError.Error())
	assert.ErrorIs(t, snap.LastError, origErr)
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())

	s.Update(Data{}, errors.New("fail 1"))
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())
	assert.False(t, snap.HasData)

	s.Update(Data{}, errors.New("fail 2"))
	snap = s.Snapshot()
	assert.Equal(t, 2, snap.ConsecutiveFailures)
	assert.True(t, snap.IsOffline())

	// Success resets counter
	s.Update(Data{}, nil)
	snap = s.Snapshot()
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())
	assert.True(t, snap.HasData)
}
