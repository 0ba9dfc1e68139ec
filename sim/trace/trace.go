package trace

import (
	"github.com/gammazero/deque"
	"github.com/rs/xid"
)

// DefaultCapacity is the number of records kept when no capacity is given.
const DefaultCapacity = 64

// SimulationTrace keeps the most recent dispatch records of one run.
// Older records are dropped once Capacity is reached; Total keeps counting.
type SimulationTrace struct {
	RunID    string
	Capacity int
	Total    int

	records deque.Deque[DispatchRecord]
}

// NewSimulationTrace creates a trace ready for recording, tagged with a fresh run ID.
func NewSimulationTrace(capacity int) *SimulationTrace {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SimulationTrace{
		RunID:    xid.New().String(),
		Capacity: capacity,
	}
}

// Reset drops every record and starts a new run under a fresh run ID.
func (st *SimulationTrace) Reset() {
	st.records.Clear()
	st.Total = 0
	st.RunID = xid.New().String()
}

// RecordDispatch appends a dispatch record, evicting the oldest if full.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.records.PushBack(record)
	for st.records.Len() > st.Capacity {
		st.records.PopFront()
	}
	st.Total++
}

// Records returns the retained records, oldest first.
func (st *SimulationTrace) Records() []DispatchRecord {
	out := make([]DispatchRecord, st.records.Len())
	for i := range out {
		out[i] = st.records.At(i)
	}
	return out
}

// Dropped returns how many records were evicted.
func (st *SimulationTrace) Dropped() int {
	return st.Total - st.records.Len()
}
