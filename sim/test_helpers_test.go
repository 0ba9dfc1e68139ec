package sim

import (
	"errors"
	"testing"

	"github.com/ggcsim/ggcsim/sim/dist"
)

// mustExponential builds a batched exponential distribution on the given
// RNG partition of seed.
func mustExponential(t testing.TB, rate float64, seed int64, subsystem string) *dist.Distribution {
	t.Helper()
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	d, err := dist.New(dist.DistSpec{Type: "exponential", Params: map[string]float64{"rate": rate}},
		rng.ForSubsystem(subsystem))
	if err != nil {
		t.Fatalf("building exponential(%g): %v", rate, err)
	}
	return d
}

func mustDeterministic(t testing.TB, value float64) *dist.Distribution {
	t.Helper()
	d, err := dist.New(dist.DistSpec{Type: "deterministic", Params: map[string]float64{"value": value}}, nil)
	if err != nil {
		t.Fatalf("building deterministic(%g): %v", value, err)
	}
	return d
}

// newMMc builds an M/M/c simulator whose arrival and service streams are
// partitions of the same seed.
func newMMc(t testing.TB, lambda, mu float64, servers int, seed int64, opts ...Option) *Simulator {
	t.Helper()
	s, err := NewSimulator(
		mustExponential(t, lambda, seed, SubsystemArrival),
		mustExponential(t, mu, seed, SubsystemService),
		servers, opts...)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}

var errScripted = errors.New("scripted sampler exhausted")

// scriptedSampler returns a fixed sequence of durations, then errScripted.
type scriptedSampler struct {
	values []float64
	calls  int
}

func (s *scriptedSampler) Sample() (float64, error) {
	if s.calls >= len(s.values) {
		return 0, errScripted
	}
	v := s.values[s.calls]
	s.calls++
	return v, nil
}

func mustResults(t testing.TB, maxQueueLength int) *Results {
	t.Helper()
	r, err := NewResults(maxQueueLength)
	if err != nil {
		t.Fatalf("NewResults(%d): %v", maxQueueLength, err)
	}
	return r
}
