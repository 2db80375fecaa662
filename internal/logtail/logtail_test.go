package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "error with fields",
			input: `time="2026-10-19 10:00:00" level=error msg="failed to assign spool" component=entity error="api POST /api/spools returned status 404: \"gone\"" tray=tray-3`,
			want: Entry{
				Time:    "2026-10-19 10:00:00",
				Level:   "error",
				Message: "failed to assign spool",
				Fields: []Field{
					{Key: "component", Value: "entity"},
					{Key: "error", Value: `api POST /api/spools returned status 404: "gone"`},
					{Key: "tray", Value: "tray-3"},
				},
			},
		},
		{
			name:  "bare message",
			input: `time="2026-10-19 10:00:01" level=info msg=started`,
			want:  Entry{Time: "2026-10-19 10:00:01", Level: "info", Message: "started"},
		},
		{
			name:  "plain text",
			input: "panic: something went wrong",
			want:  Entry{Message: "panic: something went wrong"},
		},
		{
			name:  "empty value",
			input: `level=warning msg="spoolmansync not ready" url=`,
			want: Entry{
				Level:   "warning",
				Message: "spoolmansync not ready",
				Fields:  []Field{{Key: "url", Value: ""}},
			},
		},
		{
			name:  "key value without level or msg",
			input: "GOMAXPROCS=4 GODEBUG=madvdontneed=1",
			want:  Entry{Message: "GOMAXPROCS=4 GODEBUG=madvdontneed=1"},
		},
		{
			name:  "unterminated quote",
			input: `level=info msg="half`,
			want:  Entry{Message: `level=info msg="half`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			tt.want.Raw = tt.input
			assert.Equal(t, tt.want, got)
		})
	}
}
