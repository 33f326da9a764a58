package timeseries

// MemoryRecorder keeps rows in memory. Used by tests and by callers that post-process a run.
type MemoryRecorder struct {
	Rows   []Row
	Closed bool
}

// Record appends a row.
func (m *MemoryRecorder) Record(row Row) error {
	m.Rows = append(m.Rows, row)
	return nil
}

// Close marks the recorder closed.
func (m *MemoryRecorder) Close() error {
	m.Closed = true
	return nil
}
