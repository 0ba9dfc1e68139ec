package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResults_TimeWeightedMean(t *testing.T) {
	r := mustResults(t, 10)
	// queue 0 on [0,1), 2 on [1,4), 1 on [4,5)
	require.NoError(t, r.RegisterQueueLength(1, 0))
	require.NoError(t, r.RegisterQueueLength(4, 2))
	require.NoError(t, r.RegisterQueueLength(5, 1))

	mean, err := r.MeanQueueLength()
	require.NoError(t, err)
	assert.InDelta(t, 7.0/5.0, mean, 1e-12)

	probs, err := r.QueueLengthProbabilities()
	require.NoError(t, err)
	require.Len(t, probs, 11)
	assert.InDelta(t, 0.2, probs[0], 1e-12)
	assert.InDelta(t, 0.2, probs[1], 1e-12)
	assert.InDelta(t, 0.6, probs[2], 1e-12)
	assert.Equal(t, 5.0, r.ObservedTime())
	assert.Equal(t, 3, r.Observations())
}

func TestResults_OverflowBucket(t *testing.T) {
	r := mustResults(t, 3)
	require.NoError(t, r.RegisterQueueLength(2, 7))
	require.NoError(t, r.RegisterQueueLength(3, 3))

	h := r.Histogram()
	require.Len(t, h, 4)
	assert.Equal(t, 3.0, h[3], "lengths >= 3 land in the last bucket")

	// the mean still uses the true queue length
	mean, err := r.MeanQueueLength()
	require.NoError(t, err)
	assert.InDelta(t, (7.0*2+3.0*1)/3.0, mean, 1e-12)

	tail, err := r.TailProbability(3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tail, 1e-12)
	tail, err = r.TailProbability(100)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tail, 1e-12, "k beyond the overflow bucket clamps to it")
}

func TestResults_RejectsTimeRegression(t *testing.T) {
	r := mustResults(t, 5)
	require.NoError(t, r.RegisterQueueLength(2, 1))
	err := r.RegisterQueueLength(1.5, 1)
	if !errors.Is(err, ErrTimeRegression) {
		t.Fatalf("err = %v, want ErrTimeRegression", err)
	}
	// rejected call left the state untouched
	assert.Equal(t, 2.0, r.ObservedTime())
	assert.Equal(t, 1, r.Observations())
}

func TestResults_RejectsNegativeQueueLength(t *testing.T) {
	r := mustResults(t, 5)
	require.ErrorIs(t, r.RegisterQueueLength(1, -1), ErrInvalidQueueLength)
}

func TestResults_NoElapsedTime(t *testing.T) {
	r := mustResults(t, 5)
	_, err := r.MeanQueueLength()
	require.ErrorIs(t, err, ErrNoElapsedTime)
	_, err = r.QueueLengthProbabilities()
	require.ErrorIs(t, err, ErrNoElapsedTime)
	_, err = r.TailProbability(1)
	require.ErrorIs(t, err, ErrNoElapsedTime)

	// a registration at t=0 still leaves no elapsed time
	require.NoError(t, r.RegisterQueueLength(0, 4))
	_, err = r.MeanQueueLength()
	require.ErrorIs(t, err, ErrNoElapsedTime)
}

func TestResults_DefaultMaxQueueLength(t *testing.T) {
	r := mustResults(t, 0)
	assert.Equal(t, DefaultMaxQueueLength, r.MaxQueueLength())
	assert.Len(t, r.Histogram(), DefaultMaxQueueLength+1)
}

func TestNewResults_RejectsNegativeMaxQueueLength(t *testing.T) {
	// GIVEN a negative overflow bucket
	r, err := NewResults(-1)

	// THEN it is rejected rather than replaced by the default
	assert.Nil(t, r)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrInvalidQueueLength)
}

// TestResults_HistogramSumsToObservedTime checks the accumulator invariant
// over arbitrary observation sequences.
func TestResults_HistogramSumsToObservedTime(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxQL := rapid.IntRange(1, 50).Draw(t, "maxQL")
		r, err := NewResults(maxQL)
		if err != nil {
			t.Fatalf("NewResults(%d): %v", maxQL, err)
		}
		now := 0.0
		steps := rapid.IntRange(1, 100).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			now += rapid.Float64Range(0, 10).Draw(t, "dt")
			ql := rapid.IntRange(0, 2*maxQL).Draw(t, "ql")
			if err := r.RegisterQueueLength(now, ql); err != nil {
				t.Fatalf("register: %v", err)
			}
		}
		var sum float64
		for _, v := range r.Histogram() {
			sum += v
		}
		if math.Abs(sum-r.ObservedTime()) > 1e-9*math.Max(1, r.ObservedTime()) {
			t.Fatalf("histogram sum %g != observed time %g", sum, r.ObservedTime())
		}
		if r.ObservedTime() == 0 {
			return
		}
		probs, err := r.QueueLengthProbabilities()
		if err != nil {
			t.Fatalf("probabilities: %v", err)
		}
		var total float64
		for _, p := range probs {
			if p < 0 {
				t.Fatalf("negative probability %g", p)
			}
			total += p
		}
		if math.Abs(total-1) > 1e-9 {
			t.Fatalf("probabilities sum to %g", total)
		}
	})
}
