// Package logtail reads the end of the Localizei log file, which the TUI
// writes to instead of the terminal.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// levelPattern finds the level attribute written by slog's text
// (level=WARN) and JSON ("level":"WARN") handlers.
var levelPattern = regexp.MustCompile(`(?:^|\s)level=([A-Z]+)|"level":"([A-Z]+)"`)

// Tail returns at most maxLines records from the end of the file at path,
// keeping only those at or above minLevel. maxLines <= 0 returns every matching
// line. A missing file yields no lines.
func Tail(path string, maxLines int, minLevel slog.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var (
		ring  []string
		idx   int
		count int
	)
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !keep(line, minLevel) {
			continue
		}
		if maxLines <= 0 {
			ring = append(ring, line)
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines <= 0 {
		return ring, nil
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

// LineLevel extracts the slog level of a record. Lines without one report
// false.
func LineLevel(line string) (slog.Level, bool) {
	m := levelPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, false
	}
	return level, true
}

// keep drops records below minLevel. Lines without a level, such as panics,
// are always kept.
func keep(line string, minLevel slog.Level) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	level, ok := LineLevel(line)
	return !ok || level >= minLevel
}
