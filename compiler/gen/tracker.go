package gen

// SkipTracker records, in order, the outputs written and the outputs left
// untouched because their content was unchanged. It is read for reporting
// once the run is over.
type SkipTracker struct {
	parsed  []string
	skipped []string
}

func (t *SkipTracker) addParsed(name string)  { t.parsed = append(t.parsed, name) }
func (t *SkipTracker) addSkipped(name string) { t.skipped = append(t.skipped, name) }

// Parsed returns the output files written, in order.
func (t *SkipTracker) Parsed() []string { return append([]string(nil), t.parsed...) }

// Skipped returns the output files whose content was unchanged, in order.
func (t *SkipTracker) Skipped() []string { return append([]string(nil), t.skipped...) }

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}
