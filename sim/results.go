// Tracks the time-weighted queue-length statistics of a single run.

package sim

import "fmt"

// DefaultMaxQueueLength bounds the histogram; the last bucket collects
// every queue length at or above it.
const DefaultMaxQueueLength = 10000

// Results accumulates queue-length observations weighted by how long each
// value was held. Invariant: the histogram sums to ObservedTime().
type Results struct {
	area         float64   // integral of queue length over time
	lastTime     float64   // time of the most recent observation
	histogram    []float64 // histogram[k] = time spent with queue length k (last bucket: >= maxQL)
	maxQueueLen  int
	observations int
}

// NewResults creates an empty accumulator with maxQueueLength+1 buckets.
// Zero selects DefaultMaxQueueLength; negative values are rejected.
func NewResults(maxQueueLength int) (*Results, error) {
	if maxQueueLength < 0 {
		return nil, &ConfigError{Field: "max queue length", Value: maxQueueLength, Err: ErrInvalidQueueLength}
	}
	if maxQueueLength == 0 {
		maxQueueLength = DefaultMaxQueueLength
	}
	return &Results{
		histogram:   make([]float64, maxQueueLength+1),
		maxQueueLen: maxQueueLength,
	}, nil
}

// RegisterQueueLength records that the queue held ql customers from the
// previous observation until t.
func (r *Results) RegisterQueueLength(t float64, ql int) error {
	if t < r.lastTime {
		return fmt.Errorf("register at t=%g after t=%g: %w", t, r.lastTime, ErrTimeRegression)
	}
	if ql < 0 {
		return fmt.Errorf("register queue length %d: %w", ql, ErrInvalidQueueLength)
	}
	dt := t - r.lastTime
	r.area += float64(ql) * dt
	r.histogram[min(ql, r.maxQueueLen)] += dt
	r.lastTime = t
	r.observations++
	return nil
}

// MeanQueueLength returns the time-weighted average queue length.
func (r *Results) MeanQueueLength() (float64, error) {
	if r.lastTime == 0 {
		return 0, ErrNoElapsedTime
	}
	return r.area / r.lastTime, nil
}

// QueueLengthProbabilities returns the fraction of time spent at each queue
// length. The slice has MaxQueueLength()+1 entries and sums to 1; the last
// entry is the probability of a queue length >= MaxQueueLength().
func (r *Results) QueueLengthProbabilities() ([]float64, error) {
	if r.lastTime == 0 {
		return nil, ErrNoElapsedTime
	}
	probs := make([]float64, len(r.histogram))
	for k, v := range r.histogram {
		probs[k] = v / r.lastTime
	}
	return probs, nil
}

// TailProbability returns the fraction of time the queue length was >= k.
// k above MaxQueueLength() is clamped to the overflow bucket.
func (r *Results) TailProbability(k int) (float64, error) {
	if r.lastTime == 0 {
		return 0, ErrNoElapsedTime
	}
	if k <= 0 {
		return 1, nil
	}
	var tail float64
	for i := min(k, r.maxQueueLen); i < len(r.histogram); i++ {
		tail += r.histogram[i]
	}
	return tail / r.lastTime, nil
}

// Histogram returns a copy of the raw time-per-queue-length histogram.
func (r *Results) Histogram() []float64 {
	out := make([]float64, len(r.histogram))
	copy(out, r.histogram)
	return out
}

// ObservedTime returns the time of the last observation.
func (r *Results) ObservedTime() float64 { return r.lastTime }

// MaxQueueLength returns the index of the overflow bucket.
func (r *Results) MaxQueueLength() int { return r.maxQueueLen }

// Observations returns how many queue-length registrations were made.
func (r *Results) Observations() int { return r.observations }
