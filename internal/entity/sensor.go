package entity

import (
	"fmt"

	"github.com/five82/spoolsync/internal/spoolman"
)

const noSpoolValue = "No Spool"

// TraySensor reports the spool currently in a tray.
type TraySensor struct {
	ref    TrayRef
	source Source
}

// Attributes describes the spool held by a tray.
type Attributes struct {
	SpoolID         int64
	Vendor          *string
	Material        *string
	FilamentName    *string
	RemainingWeight *float64
	ColorHex        *string
}

// Attribute is a rendered key/value pair.
type Attribute struct {
	Key   string
	Value string
}

// UniqueID implements Entity.
func (s *TraySensor) UniqueID() string {
	return uniqueIDPrefix + "sensor_" + s.ref.ID()
}

// Name implements Entity.
func (s *TraySensor) Name() string {
	return s.ref.Label() + " Info"
}

// Tray returns the tray this sensor observes.
func (s *TraySensor) Tray() TrayRef {
	return s.ref
}

// NativeValue is "Spool #{id}" for an occupied tray and "No Spool" otherwise.
func (s *TraySensor) NativeValue() string {
	spool, ok := spoolman.FindByTray(s.ref.spools(s.source), s.ref.ID())
	if !ok {
		return noSpoolValue
	}
	return fmt.Sprintf("Spool #%d", spool.ID)
}

// Attributes returns the spool details, or false for an empty tray.
func (s *TraySensor) Attributes() (Attributes, bool) {
	spool, ok := spoolman.FindByTray(s.ref.spools(s.source), s.ref.ID())
	if !ok {
		return Attributes{}, false
	}
	attrs := Attributes{
		SpoolID:         spool.ID,
		Material:        spool.Filament.Material,
		FilamentName:    spool.Filament.Name,
		RemainingWeight: spool.RemainingWeight,
		ColorHex:        spool.Filament.ColorHex,
	}
	if spool.Filament.Vendor != nil {
		attrs.Vendor = spool.Filament.Vendor.Name
	}
	return attrs, true
}

// Pairs renders the attributes in a stable order. Absent values render empty.
func (a Attributes) Pairs() []Attribute {
	return []Attribute{
		{Key: "spool_id", Value: fmt.Sprintf("%d", a.SpoolID)},
		{Key: "vendor", Value: deref(a.Vendor)},
		{Key: "material", Value: deref(a.Material)},
		{Key: "filament_name", Value: deref(a.FilamentName)},
		{Key: "remaining_weight", Value: formatWeight(a.RemainingWeight)},
		{Key: "color_hex", Value: deref(a.ColorHex)},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatWeight(w *float64) string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%.1f g", *w)
}
