// Package exporter writes the collected dataset to durable storage.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter serializes a dataset to one delimited UTF-8 file with a
// header row. It is invoked exactly once per run, after all languages
// have been collected.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting path. The file is not
// touched until Write is called.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write creates the file, writes the header and one row per record,
// and flushes. An existing file at the target path is truncated.
func (w *CSVWriter) Write(header []string, rows [][]string) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
