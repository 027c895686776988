package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// logStamp orders run logs by start time when listed.
const logStamp = "20060102_150405"

// OpenRunLog creates logsDir if needed and opens the log of the run started
// at start for appending, as <logsDir>/<name>.<start UTC>.log. A rerun within
// the same second appends to the same file.
func OpenRunLog(logsDir, name string, start time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(runLogPath(logsDir, name, start), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func runLogPath(logsDir, name string, start time.Time) string {
	return filepath.Join(logsDir, name+"."+start.UTC().Format(logStamp)+".log")
}
