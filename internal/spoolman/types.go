package spoolman

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	defaultPrinterName = "Printer"
	defaultAMSName     = "AMS"
	unknownField       = "Unknown"

	// ExternalAMSName labels the external spool holder of a printer.
	ExternalAMSName = "External"

	activeTrayKey = "active_tray"
)

// PrintersResponse mirrors /api/printers.
type PrintersResponse struct {
	Printers []Printer `json:"printers"`
}

// SpoolsResponse mirrors /api/spools.
type SpoolsResponse struct {
	Spools []Spool `json:"spools"`
}

// Printer describes a printer and the tray holders attached to it.
type Printer struct {
	Name          string    `json:"name"`
	AMSUnits      []AMSUnit `json:"ams_units"`
	ExternalSpool *Tray     `json:"external_spool"`
}

// DisplayName returns the printer name or a generic fallback.
func (p Printer) DisplayName() string {
	if p.Name == "" {
		return defaultPrinterName
	}
	return p.Name
}

// AMSUnit is an automated material system holding several trays.
type AMSUnit struct {
	Name  string `json:"name"`
	Trays []Tray `json:"trays"`
}

// DisplayName returns the unit name or a generic fallback.
func (a AMSUnit) DisplayName() string {
	if a.Name == "" {
		return defaultAMSName
	}
	return a.Name
}

// Tray is a physical slot that holds a single spool.
type Tray struct {
	EntityID   string `json:"entity_id"`
	TrayNumber int    `json:"tray_number"`
}

// Spool is a roll of filament tracked by the inventory service.
type Spool struct {
	ID              int64                      `json:"id"`
	Filament        Filament                   `json:"filament"`
	RemainingWeight *float64                   `json:"remaining_weight"`
	Extra           map[string]json.RawMessage `json:"extra"`
}

// Filament carries the material metadata of a spool.
type Filament struct {
	Name     *string `json:"name"`
	Material *string `json:"material"`
	ColorHex *string `json:"color_hex"`
	Vendor   *Vendor `json:"vendor"`
}

// Vendor is the filament manufacturer.
type Vendor struct {
	Name *string `json:"name"`
}

// VendorName returns the vendor name, "Unknown" when absent.
func (s Spool) VendorName() string {
	if s.Filament.Vendor == nil || s.Filament.Vendor.Name == nil {
		return unknownField
	}
	return *s.Filament.Vendor.Name
}

// Material returns the filament material, "Unknown" when absent.
func (s Spool) Material() string {
	if s.Filament.Material == nil {
		return unknownField
	}
	return *s.Filament.Material
}

// FilamentName returns the filament name, empty when absent.
func (s Spool) FilamentName() string {
	if s.Filament.Name == nil {
		return ""
	}
	return *s.Filament.Name
}

// Label renders the spool as "#{id} {vendor} {material} {name}".
func (s Spool) Label() string {
	return strings.TrimSpace(fmt.Sprintf("#%d %s %s %s", s.ID, s.VendorName(), s.Material(), s.FilamentName()))
}

// ActiveTray returns the tray id stored in the spool's extra fields.
// The second return value is false when the spool is not in any tray or the
// stored value cannot be read.
func (s Spool) ActiveTray() (string, bool) {
	raw, ok := s.Extra[activeTrayKey]
	if !ok || len(raw) == 0 {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		// Only string values are ever written by the server.
		return "", false
	}
	return DecodeActiveTray(value)
}

// DecodeActiveTray decodes the string form of an active tray value. The value
// is normally a JSON document holding a string; anything that fails to decode
// is used with its surrounding quotes removed. A JSON value that decodes to
// something other than a string never names a tray.
func DecodeActiveTray(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return strings.Trim(value, `"`), true
	}
	id, ok := decoded.(string)
	return id, ok
}
