// Package dist wraps analytic probability distributions for the simulation
// kernel. Drawing variates one at a time is slow relative to drawing them in
// bulk, so Distribution keeps a pre-sampled buffer and hands variates out of
// it, refilling in one batch call when it runs dry.
package dist

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// DefaultBatchSize is the initial buffer size of a Distribution.
const DefaultBatchSize = 10000

// batchGrowth is the factor the buffer grows by when a single request
// exceeds it.
const batchGrowth = 10

var ErrInvalidSampleCount = errors.New("sample count must be positive")

// Option configures a Distribution.
type Option func(*Distribution)

// WithBatchSize sets the initial buffer size. Zero keeps DefaultBatchSize;
// NewDistribution rejects negative values.
func WithBatchSize(n int) Option {
	return func(d *Distribution) {
		if n != 0 {
			d.batchSize = n
		}
	}
}

// Distribution is a batched sampler over a Source. Each instance owns its
// buffer and batch size; the batch size only grows, and only for this
// instance.
//
// Invariant: 0 <= idx <= batchSize, and buffer[idx:] are unconsumed variates.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Distribution struct {
	src       Source
	batchSize int
	buffer    []float64
	idx       int
	refills   int
}

// NewDistribution wraps src and pre-samples the first batch.
func NewDistribution(src Source, opts ...Option) (*Distribution, error) {
	if src == nil {
		return nil, errors.New("distribution source must not be nil")
	}
	d := &Distribution{src: src, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(d)
	}
	if d.batchSize < 0 {
		return nil, fmt.Errorf("batch size %d: %w", d.batchSize, ErrInvalidSampleCount)
	}
	if err := d.resample(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Distribution) String() string {
	return fmt.Sprint(d.src)
}

// resample replaces the whole buffer with a fresh batch from the source.
// A new slice is allocated so slices handed out earlier stay valid.
func (d *Distribution) resample() error {
	buf, err := d.src.SampleBatch(d.batchSize)
	if err != nil {
		return err
	}
	if len(buf) != d.batchSize {
		return fmt.Errorf("source returned %d variates, want %d", len(buf), d.batchSize)
	}
	d.buffer = buf
	d.idx = 0
	d.refills++
	logrus.Debugf("%v: resampled %d variates (refill %d)", d, d.batchSize, d.refills)
	return nil
}

// Sample returns the next variate.
func (d *Distribution) Sample() (float64, error) {
	if d.idx >= d.batchSize {
		if err := d.resample(); err != nil {
			return 0, err
		}
	}
	v := d.buffer[d.idx]
	d.idx++
	return v, nil
}

// SampleN returns exactly n variates. The returned slice aliases the
// internal buffer and must not be modified.
func (d *Distribution) SampleN(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample(%d): %w", n, ErrInvalidSampleCount)
	}
	if d.batchSize-d.idx < n {
		grown := false
		for d.batchSize < n {
			d.batchSize *= batchGrowth
			grown = true
		}
		if grown {
			logrus.Debugf("%v: batch size grown to %d for a request of %d", d, d.batchSize, n)
		}
		if err := d.resample(); err != nil {
			return nil, err
		}
	}
	out := d.buffer[d.idx : d.idx+n : d.idx+n]
	d.idx += n
	return out, nil
}

// Capacity returns the current buffer size.
func (d *Distribution) Capacity() int { return d.batchSize }

// Remaining returns the number of unconsumed pre-sampled variates.
func (d *Distribution) Remaining() int { return d.batchSize - d.idx }

// Refills returns how many batches have been drawn from the source.
func (d *Distribution) Refills() int { return d.refills }

// Source returns the wrapped distribution.
func (d *Distribution) Source() Source { return d.src }

func (d *Distribution) Mean() float64 { return d.src.Mean() }

func (d *Distribution) Variance() float64 { return d.src.Variance() }

// StdDev returns the standard deviation.
func (d *Distribution) StdDev() float64 { return math.Sqrt(d.src.Variance()) }

func (d *Distribution) CDF(x float64) float64 { return d.src.CDF(x) }

func (d *Distribution) PDF(x float64) float64 { return d.src.PDF(x) }

func (d *Distribution) Survival(x float64) float64 { return d.src.Survival(x) }

func (d *Distribution) Quantile(p float64) (float64, error) { return d.src.Quantile(p) }

func (d *Distribution) Moment(k int) (float64, error) { return d.src.Moment(k) }

func (d *Distribution) Median() float64 { return d.src.Median() }

func (d *Distribution) Interval(alpha float64) (float64, float64, error) {
	return d.src.Interval(alpha)
}
