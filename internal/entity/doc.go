// Package entity projects SpoolmanSync data into per-tray entities.
//
// Every tray found on a printer (AMS trays first, then the external spool
// holder) yields two entities:
//
//   - TraySelect: a choice between "None" and every spool label. Selecting an
//     option assigns or unassigns the spool on the server and asks the
//     coordinator for an immediate refresh.
//   - TraySensor: a read-only "Spool #id" / "No Spool" value with the spool's
//     vendor, material, name, remaining weight and colour as attributes.
//
// Entities hold no data of their own. They read the latest snapshot from
// their Source on every call, so they always reflect the most recent
// successful refresh.
//
// When two spools claim the same tray the first one in server order wins.
package entity
