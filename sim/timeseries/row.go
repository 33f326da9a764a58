// Package timeseries records the per-event time series of a run: one Row after the
// initial state and after every applied event. It has no dependency on sim/.
package timeseries

// Row is one recorded snapshot of the simulation.
type Row struct {
	Time                 float64
	ActiveClones         int
	CumulativeDrivers    int64
	CumulativePassengers int64
}

// InitialRow is the mandatory first row: a single wild-type clone at time 0.
var InitialRow = Row{Time: 0, ActiveClones: 1, CumulativeDrivers: 0, CumulativePassengers: 0}

// Columns is the header of the CSV output, in column order.
var Columns = []string{"Time", "ActiveClones", "CumulativeDrivers", "CumulativePassengers"}

// Recorder receives rows in order. Close flushes buffered rows and releases the destination.
type Recorder interface {
	Record(row Row) error
	Close() error
}

// Format names an output backend.
type Format string

const (
	// FormatCSV writes a comma-separated table with a header row.
	FormatCSV Format = "csv"
	// FormatSQLite writes rows into a SQLite database (runs + samples tables).
	FormatSQLite Format = "sqlite"
)

// ValidFormats is the set of recognized output formats. Empty means csv.
var ValidFormats = map[Format]bool{"": true, FormatCSV: true, FormatSQLite: true}

// Open creates a Recorder for the given format writing to path.
// The header is stored alongside the rows by formats that support metadata.
func Open(format Format, path string, header RunHeader) (Recorder, error) {
	if format == FormatSQLite {
		return NewSQLiteRecorder(path, header)
	}
	return NewCSVRecorder(path)
}
