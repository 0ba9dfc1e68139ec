// Package trace provides dispatch-trace recording for debugging simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// DispatchRecord captures a single event dispatch by the simulation loop.
type DispatchRecord struct {
	Seq         uint64  // insertion sequence of the dispatched event
	Kind        string  // "arrival" or "departure"
	Clock       float64 // simulation time of the event
	QueueBefore int     // queue length before the transition
	QueueAfter  int     // queue length after the transition
	Scheduled   int     // number of follow-up events scheduled
}

func (r DispatchRecord) String() string {
	return fmt.Sprintf("[t=%.6f] #%d %-9s queue %d -> %d (+%d scheduled)",
		r.Clock, r.Seq, r.Kind, r.QueueBefore, r.QueueAfter, r.Scheduled)
}
