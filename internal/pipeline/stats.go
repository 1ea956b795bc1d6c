package pipeline

// RunStats tracks aggregate counters and byte totals across a run.
type RunStats struct {
	Total            int // Image entries in the document.
	Converted        int
	Reused           int // Entries sharing a source with an earlier entry.
	Skipped          int // Embedded, remote, or already-converted entries.
	Failed           int
	Interrupted      int // Entries not started because the run was cancelled.
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between the converted
// sources and their .astc outputs. Positive means outputs are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
