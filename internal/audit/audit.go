// Package audit persists one CSV row per attempted screenshot, so every run
// leaves a record of what was renamed, skipped, or failed and what it cost.
package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/topherjaynes/Screenshot-Holmes/internal/processor"
)

var header = []string{"original_path", "new_name", "description", "prompt_tokens", "total_tokens"}

// Logger appends rows to a per-run audit CSV. Best-effort: a write failure
// is reported to the caller but never rolls back a completed rename.
type Logger struct {
	file   *os.File
	writer *csv.Writer
	path   string
}

// New creates the audit file for this run inside dir, named with the run
// timestamp, and writes the header.
func New(dir string, now time.Time) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "holmes_audit_"+now.Format("20060102T150405")+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		_ = file.Close()
		return nil, err
	}

	return &Logger{file: file, writer: writer, path: path}, nil
}

// Path returns the audit file location.
func (l *Logger) Path() string { return l.path }

// Record appends one row for a terminal result.
func (l *Logger) Record(res processor.Result) error {
	newName := ""
	if res.NewPath != "" {
		newName = filepath.Base(res.NewPath)
	}
	description := res.Description
	if res.Status == processor.StatusFailed && description == "" && res.Err != nil {
		description = res.Err.Error()
	}
	return l.writer.Write([]string{
		res.OriginalPath,
		newName,
		description,
		strconv.Itoa(res.PromptTokens),
		strconv.Itoa(res.TotalTokens),
	})
}

// Close flushes buffered rows and closes the file. Must run before the batch
// exits successfully; a flush failure is the caller's to report.
func (l *Logger) Close() error {
	l.writer.Flush()
	flushErr := l.writer.Error()
	closeErr := l.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
