package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FormatTime renders a simulation time with 6 significant digits, dropping trailing
// zeros (0.1 → "0.1", 12.3456789 → "12.3457", 0.00001 → "1e-05").
func FormatTime(t float64) string {
	return strconv.FormatFloat(t, 'g', 6, 64)
}

// CSVRecorder writes rows as a CSV table.
type CSVRecorder struct {
	closer io.Closer
	writer *csv.Writer
}

// NewCSVRecorder creates (or truncates) the file at path and writes the header row.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file for writing: %w", err)
	}
	r, err := NewCSVRecorderWriter(file, file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

// NewCSVRecorderWriter writes the CSV table to w. closer may be nil.
func NewCSVRecorderWriter(w io.Writer, closer io.Closer) (*CSVRecorder, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	return &CSVRecorder{closer: closer, writer: writer}, nil
}

// Record writes one data row.
func (r *CSVRecorder) Record(row Row) error {
	if err := r.writer.Write([]string{
		FormatTime(row.Time),
		strconv.Itoa(row.ActiveClones),
		strconv.FormatInt(row.CumulativeDrivers, 10),
		strconv.FormatInt(row.CumulativePassengers, 10),
	}); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file.
func (r *CSVRecorder) Close() error {
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		if r.closer != nil {
			_ = r.closer.Close()
		}
		return fmt.Errorf("flushing CSV: %w", err)
	}
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
