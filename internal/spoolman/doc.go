// Package spoolman provides an HTTP client and data model for the
// SpoolmanSync API.
//
// # Overview
//
// SpoolmanSync bridges a Spoolman filament inventory and the AMS trays of
// Bambu printers. This package talks to its REST API and owns the rules for
// reading spool-to-tray assignments out of spool payloads.
//
// # Architecture
//
//   - client.go: HTTP client and request/response handling
//   - types.go: Printer, AMS unit, tray and spool structures, spool labels
//     and active tray decoding
//   - match.go: finding the spool in a tray and parsing option labels
//
// # Client Usage
//
//	client, err := spoolman.NewClient("http://192.168.0.34:3000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//	printers, err := client.FetchPrinters(ctx)
//	spools, err := client.FetchSpools(ctx)
//	err = client.AssignSpool(ctx, 7, "sensor.x1c_ams_1_tray_1")
//
// # API Endpoints
//
//   - GET /api/printers: printers with AMS units, trays and external spool
//   - GET /api/spools: the spool inventory
//   - GET /api/settings: connectivity probe used by setup
//   - POST /api/spools {"spoolId", "trayId"}: assign a spool to a tray
//   - DELETE /api/spools {"spoolId"}: unassign a spool
//
// Only status 200 counts as success. Anything else is a *StatusError.
//
// # Active Tray
//
// A spool's extra.active_tray holds a JSON-encoded string such as
// "\"tray-3\"". It is decoded as JSON first; if that fails the surrounding
// quotes are stripped instead. A value that decodes to a non-string never
// matches a tray.
package spoolman
