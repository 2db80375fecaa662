package entity

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
)

const uniqueIDPrefix = "spoolmansync_"

// Source provides the latest coordinator data.
type Source interface {
	Snapshot() state.Snapshot
}

// Writer changes spool assignments on the server.
type Writer interface {
	AssignSpool(ctx context.Context, spoolID int64, trayID string) error
	UnassignSpool(ctx context.Context, spoolID int64) error
}

// Refresher schedules an immediate coordinator refresh.
type Refresher interface {
	RequestRefresh()
}

// Entity is the identity shared by every tray entity.
type Entity interface {
	UniqueID() string
	Name() string
}

var (
	_ Entity = (*TraySelect)(nil)
	_ Entity = (*TraySensor)(nil)
)

// TrayRef locates a tray on a printer.
type TrayRef struct {
	Printer string
	AMS     string
	Tray    spoolman.Tray
}

// ID returns the stable tray identifier.
func (t TrayRef) ID() string {
	return t.Tray.EntityID
}

// External reports whether the tray is the printer's external spool holder.
func (t TrayRef) External() bool {
	return t.AMS == spoolman.ExternalAMSName
}

// Label returns the human readable tray name.
func (t TrayRef) Label() string {
	if t.External() {
		return fmt.Sprintf("%s External Tray", t.Printer)
	}
	return fmt.Sprintf("%s %s Tray %d", t.Printer, t.AMS, t.Tray.TrayNumber)
}

func (t TrayRef) spools(src Source) []spoolman.Spool {
	if src == nil {
		return nil
	}
	return src.Snapshot().Data.Spools
}

// Set is the result of one discovery pass.
type Set struct {
	Trays   []TrayRef
	Selects []*TraySelect
	Sensors []*TraySensor
}

// Platform creates tray entities bound to one coordinator.
type Platform struct {
	source    Source
	writer    Writer
	refresher Refresher
	log       logrus.FieldLogger

	warnedEmpty bool
}

// NewPlatform builds a Platform. The writer and refresher may be nil for a
// read-only projection.
func NewPlatform(source Source, writer Writer, refresher Refresher, log logrus.FieldLogger) *Platform {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Platform{
		source:    source,
		writer:    writer,
		refresher: refresher,
		log:       log.WithField("component", "entity"),
	}
}

// Discover walks every printer's AMS trays followed by its external spool
// holder and creates one select and one sensor per tray. An empty printer
// list is warned about once until printers appear.
func (p *Platform) Discover(data state.Data) Set {
	var set Set
	if len(data.Printers) == 0 {
		if !p.warnedEmpty {
			p.log.Warn("no printers found in spoolmansync")
			p.warnedEmpty = true
		}
		return set
	}
	p.warnedEmpty = false
	for _, printer := range data.Printers {
		printerName := printer.DisplayName()
		for _, unit := range printer.AMSUnits {
			amsName := unit.DisplayName()
			for _, tray := range unit.Trays {
				set.add(p, TrayRef{Printer: printerName, AMS: amsName, Tray: tray})
			}
		}
		if printer.ExternalSpool != nil {
			set.add(p, TrayRef{Printer: printerName, AMS: spoolman.ExternalAMSName, Tray: *printer.ExternalSpool})
		}
	}
	return set
}

func (s *Set) add(p *Platform, ref TrayRef) {
	s.Trays = append(s.Trays, ref)
	s.Selects = append(s.Selects, &TraySelect{
		ref:       ref,
		source:    p.source,
		writer:    p.writer,
		refresher: p.refresher,
		log:       p.log.WithField("tray", ref.ID()),
	})
	s.Sensors = append(s.Sensors, &TraySensor{ref: ref, source: p.source})
}

// Len returns the number of discovered trays.
func (s Set) Len() int {
	return len(s.Trays)
}

// SameTrays reports whether both sets describe the same trays in the same order.
func (s Set) SameTrays(other Set) bool {
	if len(s.Trays) != len(other.Trays) {
		return false
	}
	for i := range s.Trays {
		if s.Trays[i] != other.Trays[i] {
			return false
		}
	}
	return true
}
