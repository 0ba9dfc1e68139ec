package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ggcsim/ggcsim/sim"
	"github.com/ggcsim/ggcsim/sim/dist"
	"github.com/ggcsim/ggcsim/sim/trace"
)

// Scenario is a complete run configuration, loadable from YAML.
type Scenario struct {
	Seed           int64         `yaml:"seed"`
	Servers        int           `yaml:"servers"`
	Horizon        float64       `yaml:"horizon"`
	MaxQueueLength int           `yaml:"max_queue_length,omitempty"`
	BatchSize      int           `yaml:"batch_size,omitempty"`
	Arrival        dist.DistSpec `yaml:"arrival"`
	Service        dist.DistSpec `yaml:"service"`
}

// DefaultScenario is the textbook example: 5 arrivals per hour, each of 3
// servers handling 1 customer per hour, simulated for 100 hours.
func DefaultScenario() *Scenario {
	return &Scenario{
		Seed:           42,
		Servers:        3,
		Horizon:        100,
		MaxQueueLength: sim.DefaultMaxQueueLength,
		BatchSize:      dist.DefaultBatchSize,
		Arrival:        dist.DistSpec{Type: "exponential", Params: map[string]float64{"rate": 5}},
		Service:        dist.DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1}},
	}
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// max_queue_length and batch_size fall back to their defaults when absent;
// every other field must be given.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.MaxQueueLength == 0 {
		sc.MaxQueueLength = sim.DefaultMaxQueueLength
	}
	if sc.BatchSize == 0 {
		sc.BatchSize = dist.DefaultBatchSize
	}
	return &sc, nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if s.Servers <= 0 {
		return fmt.Errorf("servers must be positive, got %d", s.Servers)
	}
	if !(s.Horizon > 0) || math.IsInf(s.Horizon, 0) {
		return fmt.Errorf("horizon must be positive and finite, got %g", s.Horizon)
	}
	if s.MaxQueueLength < 0 {
		return fmt.Errorf("max_queue_length must be non-negative, got %d", s.MaxQueueLength)
	}
	if s.BatchSize < 0 {
		return fmt.Errorf("batch_size must be non-negative, got %d", s.BatchSize)
	}
	if err := s.Arrival.Validate(); err != nil {
		return fmt.Errorf("arrival: %w", err)
	}
	if s.Arrival.Type == "deterministic" && s.Arrival.Params["value"] <= 0 {
		return fmt.Errorf("arrival: %s: %w", s.Arrival, sim.ErrStalledArrivals)
	}
	if err := s.Service.Validate(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	return nil
}

// NewSimulator builds the distributions and simulator for the scenario.
// Arrival and service streams come from separate RNG partitions of Seed.
func (s *Scenario) NewSimulator(tr *trace.SimulationTrace) (*sim.Simulator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(s.Seed))
	arrivals, err := dist.New(s.Arrival, rng.ForSubsystem(sim.SubsystemArrival), dist.WithBatchSize(s.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("arrival distribution: %w", err)
	}
	service, err := dist.New(s.Service, rng.ForSubsystem(sim.SubsystemService), dist.WithBatchSize(s.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("service distribution: %w", err)
	}
	opts := []sim.Option{sim.WithMaxQueueLength(s.MaxQueueLength)}
	if tr != nil {
		opts = append(opts, sim.WithTrace(tr))
	}
	return sim.NewSimulator(arrivals, service, s.Servers, opts...)
}

// parseParams converts key=value flag pairs to distribution parameters.
func parseParams(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}
