package dist

import "math"

// Deterministic is a point mass at Value. It satisfies Continuous so it can
// drive D/M/c and M/D/c runs through the same Analytic adapter.
type Deterministic struct {
	Value float64
}

func (d Deterministic) Rand() float64     { return d.Value }
func (d Deterministic) Mean() float64     { return d.Value }
func (d Deterministic) Variance() float64 { return 0 }

func (d Deterministic) CDF(x float64) float64 {
	if x < d.Value {
		return 0
	}
	return 1
}

// Prob has no density; the point mass is reported as +Inf.
func (d Deterministic) Prob(x float64) float64 {
	if x == d.Value {
		return math.Inf(1)
	}
	return 0
}

func (d Deterministic) Survival(x float64) float64 {
	return 1 - d.CDF(x)
}

func (d Deterministic) Quantile(p float64) float64 {
	return d.Value
}
