package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggcsim/ggcsim/sim"
	"github.com/ggcsim/ggcsim/sim/dist"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const gammaScenario = `
seed: 7
servers: 2
horizon: 250
arrival:
  type: exponential
  params:
    rate: 1.5
service:
  type: gamma
  params:
    shape: 2
    rate: 3
`

func TestLoadScenario_FillsOptionalDefaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, gammaScenario))
	require.NoError(t, err)

	assert.Equal(t, int64(7), sc.Seed)
	assert.Equal(t, 2, sc.Servers)
	assert.Equal(t, 250.0, sc.Horizon)
	assert.Equal(t, sim.DefaultMaxQueueLength, sc.MaxQueueLength)
	assert.Equal(t, dist.DefaultBatchSize, sc.BatchSize)
	assert.Equal(t, dist.DistSpec{Type: "gamma", Params: map[string]float64{"shape": 2, "rate": 3}}, sc.Service)
	require.NoError(t, sc.Validate())
}

func TestLoadScenario_RejectsUnknownKeys(t *testing.T) {
	// GIVEN a scenario with a typo in a key
	path := writeScenario(t, gammaScenario+"sevrers: 4\n")

	// THEN strict parsing rejects it instead of silently ignoring the key
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sevrers")
}

func TestLoadScenario_DoesNotMergeDefaultParams(t *testing.T) {
	// GIVEN an exponential arrival given by its mean
	path := writeScenario(t, `
seed: 1
servers: 1
horizon: 10
arrival: {type: exponential, params: {mean: 2}}
service: {type: exponential, params: {rate: 1}}
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	// THEN the built-in default rate does not leak in next to it
	assert.Equal(t, map[string]float64{"mean": 2}, sc.Arrival.Params)
	require.NoError(t, sc.Validate())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"default", func(*Scenario) {}, ""},
		{"zero servers", func(s *Scenario) { s.Servers = 0 }, "servers"},
		{"zero horizon", func(s *Scenario) { s.Horizon = 0 }, "horizon"},
		{"negative max queue length", func(s *Scenario) { s.MaxQueueLength = -1 }, "max_queue_length"},
		{"negative batch size", func(s *Scenario) { s.BatchSize = -5 }, "batch_size"},
		{"bad arrival", func(s *Scenario) { s.Arrival = dist.DistSpec{Type: "pareto"} }, "arrival"},
		{"bad service", func(s *Scenario) { s.Service.Params = nil }, "service"},
		{"zero deterministic arrivals", func(s *Scenario) {
			s.Arrival = dist.DistSpec{Type: "deterministic", Params: map[string]float64{"value": 0}}
		}, "positive mean"},
		{"zero deterministic service", func(s *Scenario) {
			s.Service = dist.DistSpec{Type: "deterministic", Params: map[string]float64{"value": 0}}
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := DefaultScenario()
			tt.mutate(sc)
			err := sc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = sc.NewSimulator(nil)
			assert.Error(t, err, "NewSimulator must validate first")
		})
	}
}

func TestParseParams(t *testing.T) {
	got, err := parseParams(map[string]string{"shape": "2", "rate": "0.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"shape": 2, "rate": 0.5}, got)

	_, err = parseParams(map[string]string{"rate": "fast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rate"`)
}

// newRunFlags returns a throwaway command whose flags are bound to the
// package-level variables and reset to their defaults.
func newRunFlags(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	registerRunFlags(c)
	return c
}

func TestResolveScenario_DefaultsWithoutFlags(t *testing.T) {
	sc, err := resolveScenario(newRunFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)
}

func TestResolveScenario_ExplicitFlagsOverrideFile(t *testing.T) {
	// GIVEN a scenario file with seed 7 and 2 servers
	c := newRunFlags(t)
	require.NoError(t, c.Flags().Set("scenario", writeScenario(t, gammaScenario)))

	// WHEN only --servers and --service-params are given on the command line
	require.NoError(t, c.Flags().Set("servers", "4"))
	require.NoError(t, c.Flags().Set("service-params", "shape=3,rate=6"))

	sc, err := resolveScenario(c)
	require.NoError(t, err)

	// THEN those override the file and everything else comes from it
	assert.Equal(t, 4, sc.Servers)
	assert.Equal(t, int64(7), sc.Seed, "unchanged --seed default must not clobber the file")
	assert.Equal(t, 250.0, sc.Horizon)
	assert.Equal(t, "gamma", sc.Service.Type)
	assert.Equal(t, map[string]float64{"shape": 3, "rate": 6}, sc.Service.Params)
	assert.Equal(t, map[string]float64{"rate": 1.5}, sc.Arrival.Params)
}

func TestResolveScenario_TypeChangeDropsOldParams(t *testing.T) {
	c := newRunFlags(t)
	require.NoError(t, c.Flags().Set("arrival-dist", "deterministic"))

	sc, err := resolveScenario(c)
	require.NoError(t, err)
	assert.Equal(t, "deterministic", sc.Arrival.Type)
	assert.Nil(t, sc.Arrival.Params)
	assert.Error(t, sc.Validate(), "deterministic needs a value")

	require.NoError(t, c.Flags().Set("arrival-params", "value=0.25"))
	sc, err = resolveScenario(c)
	require.NoError(t, err)
	assert.NoError(t, sc.Validate())
}

func TestResolveScenario_BadParams(t *testing.T) {
	c := newRunFlags(t)
	require.NoError(t, c.Flags().Set("arrival-params", "rate=x"))
	_, err := resolveScenario(c)
	require.Error(t, err)
}

// TestScenario_SeedDeterminesRun verifies that a scenario run is a pure
// function of its seed.
func TestScenario_SeedDeterminesRun(t *testing.T) {
	run := func(seed int64) *sim.Results {
		sc := DefaultScenario()
		sc.Seed = seed
		sc.Horizon = 50
		s, err := sc.NewSimulator(nil)
		require.NoError(t, err)
		res, err := s.Simulate(sc.Horizon)
		require.NoError(t, err)
		return res
	}

	a, b, c := run(100), run(100), run(200)
	assert.Equal(t, a, b, "same seed must reproduce the run")

	ma, err := a.MeanQueueLength()
	require.NoError(t, err)
	mc, err := c.MeanQueueLength()
	require.NoError(t, err)
	assert.NotEqual(t, ma, mc, "different seeds produced identical runs")
}

func TestResolveScenario_ZeroArrivalIntervalRejected(t *testing.T) {
	// GIVEN --arrival-dist deterministic --arrival-params value=0
	c := newRunFlags(t)
	require.NoError(t, c.Flags().Set("arrival-dist", "deterministic"))
	require.NoError(t, c.Flags().Set("arrival-params", "value=0"))

	sc, err := resolveScenario(c)
	require.NoError(t, err)

	// THEN the scenario is rejected before a simulator is built
	err = sc.Validate()
	require.ErrorIs(t, err, sim.ErrStalledArrivals)
	assert.Contains(t, err.Error(), "arrival")
	_, err = sc.NewSimulator(nil)
	require.ErrorIs(t, err, sim.ErrStalledArrivals)
}
