package sim

import "github.com/addrummond/heap"

// FutureEventSet is the time-ordered pending-event queue that drives the
// simulation clock. Extraction order is by timestamp, then by insertion
// order, so equal-time events are dispatched deterministically.
//
// Scheduled events cannot be cancelled or moved; stale scheduling decisions
// are handled by guard conditions at dispatch time.
type FutureEventSet struct {
	events  heap.Heap[Event, heap.Min]
	nextSeq uint64
	size    int
}

// NewFutureEventSet creates an empty future event set.
func NewFutureEventSet() *FutureEventSet {
	return &FutureEventSet{}
}

// Insert adds an event and returns it with its sequence number assigned.
func (f *FutureEventSet) Insert(e Event) Event {
	f.nextSeq++
	e.seq = f.nextSeq
	heap.PushOrderable(&f.events, e)
	f.size++
	return e
}

// ExtractMin removes and returns the earliest event.
// Returns ErrEmptyFutureEventSet if nothing is scheduled.
func (f *FutureEventSet) ExtractMin() (Event, error) {
	e, ok := heap.PopOrderable(&f.events)
	if !ok {
		return Event{}, ErrEmptyFutureEventSet
	}
	f.size--
	return e, nil
}

// Len returns the number of pending events.
func (f *FutureEventSet) Len() int {
	return f.size
}
