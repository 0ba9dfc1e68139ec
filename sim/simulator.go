// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ggcsim/ggcsim/sim/trace"
)

// Sampler draws durations from a random process. *dist.Distribution
// satisfies it.
type Sampler interface {
	Sample() (float64, error)
}

// meaner is implemented by samplers that know their analytic mean.
type meaner interface {
	Mean() float64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithMaxQueueLength sets the overflow bucket of the queue-length histogram.
// Zero keeps DefaultMaxQueueLength; NewSimulator rejects negative values.
func WithMaxQueueLength(n int) Option {
	return func(s *Simulator) { s.maxQueueLength = n }
}

// WithTrace records every dispatch into tr. Each Simulate call resets tr,
// so it always holds the most recent run under a fresh run ID.
func WithTrace(tr *trace.SimulationTrace) Option {
	return func(s *Simulator) { s.trace = tr }
}

// Simulator runs a G/G/c queue: one arrival process, one service process
// and a bank of identical servers.
//
// Servers are modeled in aggregate: only the number of customers in the
// system is tracked, not which server holds which customer. Each busy
// server owns exactly one pending departure, so the queue-length process is
// right for any service distribution, but a departure is not tied to a
// customer. Per-customer waiting times and per-server statistics cannot be
// derived from a run.
type Simulator struct {
	arrivals       Sampler
	service        Sampler
	servers        int
	maxQueueLength int
	trace          *trace.SimulationTrace

	// Run state, reset by Simulate.
	Clock       float64
	QueueLength int
	fes         *FutureEventSet
	results     *Results
}

// NewSimulator creates a simulator with the given processes and server count.
func NewSimulator(arrivals, service Sampler, servers int, opts ...Option) (*Simulator, error) {
	if arrivals == nil || service == nil {
		return nil, &ConfigError{Field: "sampler", Value: nil, Err: ErrNilSampler}
	}
	if servers <= 0 {
		return nil, &ConfigError{Field: "server count", Value: servers, Err: ErrInvalidServerCount}
	}
	// zero-length inter-arrival times would pin the clock at t=0 forever
	if m, ok := arrivals.(meaner); ok && !(m.Mean() > 0) {
		return nil, &ConfigError{Field: "arrival mean", Value: m.Mean(), Err: ErrStalledArrivals}
	}
	s := &Simulator{
		arrivals:       arrivals,
		service:        service,
		servers:        servers,
		maxQueueLength: DefaultMaxQueueLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxQueueLength < 0 {
		return nil, &ConfigError{Field: "max queue length", Value: s.maxQueueLength, Err: ErrInvalidQueueLength}
	}
	if s.maxQueueLength == 0 {
		s.maxQueueLength = DefaultMaxQueueLength
	}
	return s, nil
}

// ServerCount returns the number of servers.
func (sim *Simulator) ServerCount() int {
	return sim.servers
}

// Simulate runs virtual time forward until the first event at or beyond
// horizon and returns the accumulated statistics. The boundary event is
// recorded but not applied. A failed run returns no results.
func (sim *Simulator) Simulate(horizon float64) (*Results, error) {
	if horizon <= 0 || math.IsNaN(horizon) || math.IsInf(horizon, 0) {
		return nil, &ConfigError{Field: "horizon", Value: horizon, Err: ErrInvalidHorizon}
	}

	if err := sim.reset(); err != nil {
		return nil, err
	}
	logrus.Infof("Starting simulation with %d servers, horizon=%g", sim.servers, horizon)

	if err := sim.schedule(Arrival, sim.arrivals); err != nil {
		return nil, err
	}
	if err := sim.run(horizon); err != nil {
		return nil, err
	}

	logrus.Infof("[t=%g] Simulation ended after %d observations, %d events pending",
		sim.Clock, sim.results.Observations(), sim.fes.Len())
	return sim.results, nil
}

// reset clears the run state for a fresh run.
func (sim *Simulator) reset() error {
	results, err := NewResults(sim.maxQueueLength)
	if err != nil {
		return err
	}
	sim.Clock = 0
	sim.QueueLength = 0
	sim.fes = NewFutureEventSet()
	sim.results = results
	if sim.trace != nil {
		sim.trace.Reset()
	}
	return nil
}

// run dispatches events until one is popped at or beyond horizon.
func (sim *Simulator) run(horizon float64) error {
	for {
		ev, err := sim.fes.ExtractMin()
		if err != nil {
			return &InvariantError{Clock: sim.Clock, Err: err}
		}
		// advance the clock
		sim.Clock = ev.Timestamp()
		// the interval ending now was spent at the pre-transition queue length
		if err := sim.results.RegisterQueueLength(sim.Clock, sim.QueueLength); err != nil {
			return &InvariantError{Clock: sim.Clock, Err: err}
		}
		if sim.Clock >= horizon {
			return nil
		}
		if err := sim.dispatch(ev); err != nil {
			return err
		}
	}
}

// dispatch applies the state transition of ev and schedules its follow-ups.
func (sim *Simulator) dispatch(ev Event) error {
	before := sim.QueueLength
	pending := sim.fes.Len()

	switch ev.Kind() {
	case Arrival:
		sim.QueueLength++
		if sim.QueueLength <= sim.servers {
			// a server was idle; the customer goes straight into service
			if err := sim.schedule(Departure, sim.service); err != nil {
				return err
			}
		}
		if err := sim.schedule(Arrival, sim.arrivals); err != nil {
			return err
		}
	case Departure:
		sim.QueueLength--
		if sim.QueueLength >= sim.servers {
			// customers are still waiting; the freed server takes the next one
			if err := sim.schedule(Departure, sim.service); err != nil {
				return err
			}
		}
	default:
		return &InvariantError{Clock: sim.Clock, Err: fmt.Errorf("unknown event kind %d", ev.Kind())}
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("[t=%.6f] %s: queue %d -> %d", sim.Clock, ev.Kind(), before, sim.QueueLength)
	}
	if sim.trace != nil {
		sim.trace.RecordDispatch(trace.DispatchRecord{
			Seq:         ev.Seq(),
			Kind:        ev.Kind().String(),
			Clock:       sim.Clock,
			QueueBefore: before,
			QueueAfter:  sim.QueueLength,
			Scheduled:   sim.fes.Len() - pending,
		})
	}
	return nil
}

// schedule draws a duration from s and inserts an event of the given kind
// that far after the current clock.
func (sim *Simulator) schedule(kind EventKind, s Sampler) error {
	d, err := s.Sample()
	if err != nil {
		return fmt.Errorf("sampling %s time: %w", kind, err)
	}
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%s duration %g: %w", kind, d, ErrInvalidVariate)
	}
	sim.fes.Insert(NewEvent(kind, sim.Clock+d))
	return nil
}
