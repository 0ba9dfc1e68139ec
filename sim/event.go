package sim

// EventKind tags what happens when an event is dispatched.
type EventKind int

const (
	// Arrival brings one customer into the system.
	Arrival EventKind = iota
	// Departure releases one customer after service.
	Departure
)

func (k EventKind) String() string {
	switch k {
	case Arrival:
		return "arrival"
	case Departure:
		return "departure"
	default:
		return "unknown"
	}
}

// Event is a scheduled state change. Events are values and never change
// after creation; the future event set stamps the insertion sequence used
// to order events that share a timestamp.
type Event struct {
	kind EventKind
	time float64 // Simulation time of the event
	seq  uint64  // Insertion order, assigned by FutureEventSet.Insert
}

// NewEvent creates an event of the given kind at time t.
func NewEvent(kind EventKind, t float64) Event {
	return Event{kind: kind, time: t}
}

// Kind returns the event type.
func (e Event) Kind() EventKind {
	return e.kind
}

// Timestamp returns the scheduled time of the event.
func (e Event) Timestamp() float64 {
	return e.time
}

// Seq returns the insertion sequence number (zero until inserted).
func (e Event) Seq() uint64 {
	return e.seq
}

// Cmp orders events by time, then by insertion sequence.
func (e *Event) Cmp(other *Event) int {
	switch {
	case e.time < other.time:
		return -1
	case e.time > other.time:
		return 1
	case e.seq < other.seq:
		return -1
	case e.seq > other.seq:
		return 1
	default:
		return 0
	}
}
