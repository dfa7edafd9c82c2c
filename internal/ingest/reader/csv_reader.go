package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const bom = "\ufeff"

// Row is one data row of a CSV table.
type Row struct {
	// Index is the 1-based position of the row below the header.
	Index int
	// Values holds the fields in header order, padded to the header width.
	Values []string
	Record map[string]string
}

type RowResult struct {
	Row Row
	Err error
}

type CSVReader struct {
	csv     *csv.Reader
	headers []string
}

// NewCSVReader reads the header line of r. A UTF-8 byte order mark in front
// of the first column name is removed.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv input has no header line")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], bom)
	}

	return &CSVReader{csv: cr, headers: headers}, nil
}

func (cr *CSVReader) Headers() []string {
	return append([]string(nil), cr.headers...)
}

// Stream emits rows starting at the 1-based row startLine. Rows before it are
// parsed and discarded. The channel is closed at end of input, on the first
// read error (delivered as a RowResult) or when ctx is done.
func (cr *CSVReader) Stream(ctx context.Context, startLine int) <-chan RowResult {
	out := make(chan RowResult)
	if startLine < 1 {
		startLine = 1
	}

	go func() {
		defer close(out)

		for index := 1; ; index++ {
			row, err := cr.next(index)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				slog.Error("Error reading CSV row", "row", index, "error", err)
				select {
				case out <- RowResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if index < startLine {
				continue
			}

			select {
			case out <- RowResult{Row: row}:
			case <-ctx.Done():
				slog.Info("Context cancelled, stopping CSV read...", "row", index)
				return
			}
		}
	}()

	return out
}

func (cr *CSVReader) next(index int) (Row, error) {
	fields, err := cr.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("failed to read csv row %d: %w", index, err)
	}

	values := make([]string, len(cr.headers))
	copy(values, fields)

	record := make(map[string]string, len(cr.headers))
	for i, h := range cr.headers {
		record[h] = values[i]
	}
	return Row{Index: index, Values: values, Record: record}, nil
}
