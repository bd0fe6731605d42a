package logtail

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localizei.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestTail_RingBuffer(t *testing.T) {
	var all []string
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		all = append(all, `time=2026-10-19T10:00:00Z level=INFO msg=`+msg)
	}
	path := writeLog(t, all...)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: all},
		{name: "read all (negative)", maxLines: -1, expected: all},
		{name: "read partial (2)", maxLines: 2, expected: all[3:]},
		{name: "read exactly all (5)", maxLines: 5, expected: all},
		{name: "read more than exists (20)", maxLines: 20, expected: all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.maxLines, slog.LevelDebug)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_FiltersByLevel(t *testing.T) {
	path := writeLog(t,
		`time=2026-10-19T10:00:00Z level=DEBUG msg="listing refreshed"`,
		`{"time":"2026-10-19T10:00:01Z","level":"WARN","msg":"listing refresh failed"}`,
		`time=2026-10-19T10:00:02Z level=INFO msg="localizei starting"`,
		`panic: boom`,
		`time=2026-10-19T10:00:03Z level=ERROR msg="init identity client failed"`,
	)

	got, err := Tail(path, 0, slog.LevelWarn)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	want := []string{
		`{"time":"2026-10-19T10:00:01Z","level":"WARN","msg":"listing refresh failed"}`,
		`panic: boom`,
		`time=2026-10-19T10:00:03Z level=ERROR msg="init identity client failed"`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail() = %v, want %v", got, want)
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10, slog.LevelInfo)
	if err != nil || got != nil {
		t.Fatalf("Tail(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line  string
		level slog.Level
		ok    bool
	}{
		{`level=INFO msg=x`, slog.LevelInfo, true},
		{`time=now level=DEBUG msg=x`, slog.LevelDebug, true},
		{`{"level":"ERROR","msg":"x"}`, slog.LevelError, true},
		{`msg="no level here"`, 0, false},
		{`sublevel=WARN`, 0, false},
	}
	for _, tt := range tests {
		level, ok := LineLevel(tt.line)
		if ok != tt.ok || level != tt.level {
			t.Errorf("LineLevel(%q) = %v, %v; want %v, %v", tt.line, level, ok, tt.level, tt.ok)
		}
	}
}
