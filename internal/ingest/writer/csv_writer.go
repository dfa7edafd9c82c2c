// Package writer appends admitted rows to the output table.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CSVWriter appends rows to a CSV file so an interrupted run can be resumed
// into the same output. The header is written only when the file is empty.
type CSVWriter struct {
	mu      sync.Mutex
	f       *os.File
	w       *csv.Writer
	headers []string
}

func OpenCSVWriter(path string, headers []string) (*CSVWriter, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("output table needs at least one column")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output table %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat output table %s: %w", path, err)
	}

	cw := &CSVWriter{
		f:       f,
		w:       csv.NewWriter(f),
		headers: append([]string(nil), headers...),
	}
	if info.Size() == 0 {
		if err := cw.w.Write(cw.headers); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := cw.Flush(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return cw, nil
}

// Write buffers one row. values are in header order; missing trailing
// columns are written empty.
func (cw *CSVWriter) Write(values []string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	row := make([]string, len(cw.headers))
	copy(row, values)
	if err := cw.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes buffered rows and syncs the file.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return fmt.Errorf("failed to flush output table: %w", err)
	}
	if err := cw.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync output table: %w", err)
	}
	return nil
}

func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	flushErr := cw.Flush()
	if err := cw.f.Close(); err != nil {
		return fmt.Errorf("failed to close output table: %w", err)
	}
	return flushErr
}
