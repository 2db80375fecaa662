package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one key=value pair of a log line.
type Field struct {
	Key   string
	Value string
}

// Entry is a parsed logrus text-formatter line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  []Field
	Raw     string
}

// Parse splits a logrus text line such as
//
//	time="2026-10-19 10:00:00" level=error msg="failed to assign spool" tray=tray-3
//
// into its parts. Lines that are not logfmt, or carry neither a level nor a
// msg key, come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	pairs, ok := decodePairs(line)
	if !ok {
		entry.Message = line
		return entry
	}
	for _, pair := range pairs {
		switch pair.Key {
		case "time":
			entry.Time = pair.Value
		case "level":
			entry.Level = pair.Value
		case "msg":
			entry.Message = pair.Value
		default:
			entry.Fields = append(entry.Fields, pair)
		}
	}
	return entry
}

func decodePairs(line string) ([]Field, bool) {
	dec := logfmt.NewDecoder(strings.NewReader(line))
	var pairs []Field
	tagged := false
	for dec.ScanRecord() {
		for dec.ScanKeyval() {
			key := string(dec.Key())
			if key == "level" || key == "msg" {
				tagged = true
			}
			pairs = append(pairs, Field{Key: key, Value: string(dec.Value())})
		}
	}
	if dec.Err() != nil || !tagged {
		return nil, false
	}
	return pairs, true
}
