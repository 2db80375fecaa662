// Package logtail reads the tail of the spoolsync log file and parses its
// lines for display.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines lines while scanning the file
// once, so memory stays bounded however large the log grows:
//
//	lines, err := logtail.Read(path, 400)
//
// A missing file is not an error; the logger may not have written anything
// yet.
//
// # Parsing
//
// Parse understands the logrus text formatter output:
//
//	time="2026-10-19 10:00:00" level=warn msg="no printers found in spoolmansync" component=entity
//
// time, level and msg are lifted into Entry fields and everything else is
// kept in order as Fields. Anything that does not look like key=value pairs
// (a stack trace, a panic) is returned verbatim as the message.
package logtail
