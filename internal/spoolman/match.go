package spoolman

import (
	"fmt"
	"strconv"
	"strings"
)

// NoneOption is the select option meaning "no spool in this tray".
const NoneOption = "None"

// FindByTray returns the first spool whose active tray is trayID.
func FindByTray(spools []Spool, trayID string) (Spool, bool) {
	for _, spool := range spools {
		if id, ok := spool.ActiveTray(); ok && id == trayID {
			return spool, true
		}
	}
	return Spool{}, false
}

// LabelForTray returns the label of the spool in trayID, or NoneOption.
func LabelForTray(spools []Spool, trayID string) string {
	if spool, ok := FindByTray(spools, trayID); ok {
		return spool.Label()
	}
	return NoneOption
}

// TrayClaims counts how many spools name each tray as their active tray.
// Counts above one mean the server holds conflicting assignments.
func TrayClaims(spools []Spool) map[string]int {
	claims := make(map[string]int)
	for _, spool := range spools {
		if id, ok := spool.ActiveTray(); ok {
			claims[id]++
		}
	}
	return claims
}

// ParseSpoolID extracts the spool id from a label such as "#12 Vendor PLA".
func ParseSpoolID(option string) (int64, error) {
	fields := strings.Fields(option)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty option")
	}
	id, err := strconv.ParseInt(strings.ReplaceAll(fields[0], "#", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse spool id from %q: %w", option, err)
	}
	return id, nil
}
