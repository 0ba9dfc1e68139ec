package trace

// TraceSummary aggregates statistics from the retained records of a SimulationTrace.
type TraceSummary struct {
	Retained         int
	Dropped          int
	MaxQueue         int
	Span             float64        // clock of the last retained record minus the first
	KindDistribution map[string]int // event kind → count of retained dispatches
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	records := st.Records()
	summary.Retained = len(records)
	summary.Dropped = st.Dropped()
	for _, r := range records {
		summary.KindDistribution[r.Kind]++
		summary.MaxQueue = max(summary.MaxQueue, r.QueueBefore, r.QueueAfter)
	}
	if len(records) > 1 {
		summary.Span = records[len(records)-1].Clock - records[0].Clock
	}
	return summary
}
