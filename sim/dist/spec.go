package dist

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// DistSpec parameterizes a backing distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

func (s DistSpec) String() string {
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, s.Params[k]))
	}
	return fmt.Sprintf("%s(%s)", s.Type, strings.Join(parts, ", "))
}

// requiredParams lists the parameters each distribution type needs.
// Exponential accepts either rate or mean and is checked separately.
var requiredParams = map[string][]string{
	"exponential":   nil,
	"gamma":         {"shape", "rate"},
	"erlang":        {"k", "rate"},
	"lognormal":     {"mu", "sigma"},
	"uniform":       {"min", "max"},
	"weibull":       {"shape", "scale"},
	"deterministic": {"value"},
}

// IsValidType reports whether name is a recognized distribution type.
func IsValidType(name string) bool {
	_, ok := requiredParams[name]
	return ok
}

// ValidTypes returns the recognized distribution types, sorted.
func ValidTypes() []string {
	out := make([]string, 0, len(requiredParams))
	for k := range requiredParams {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

func requirePositive(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if v := params[k]; !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %q must be positive and finite, got %g", k, v)
		}
	}
	return nil
}

// Validate checks the type and its parameters without building anything.
func (s DistSpec) Validate() error {
	required, ok := requiredParams[s.Type]
	if !ok {
		return fmt.Errorf("unknown distribution type %q; valid: %s", s.Type, strings.Join(ValidTypes(), ", "))
	}
	for name, val := range s.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("params.%s must be a finite number, got %f", name, val)
		}
	}
	if err := requireParam(s.Params, required...); err != nil {
		return err
	}
	p := s.Params
	switch s.Type {
	case "exponential":
		_, hasRate := p["rate"]
		_, hasMean := p["mean"]
		if hasRate == hasMean {
			return fmt.Errorf("exponential distribution requires exactly one of %q or %q", "rate", "mean")
		}
		if hasRate {
			return requirePositive(p, "rate")
		}
		return requirePositive(p, "mean")
	case "gamma":
		return requirePositive(p, "shape", "rate")
	case "erlang":
		if err := requirePositive(p, "k", "rate"); err != nil {
			return err
		}
		if p["k"] != math.Trunc(p["k"]) {
			return fmt.Errorf("erlang parameter %q must be an integer, got %g", "k", p["k"])
		}
	case "lognormal":
		return requirePositive(p, "sigma")
	case "uniform":
		if p["min"] < 0 || p["max"] <= p["min"] {
			return fmt.Errorf("uniform requires 0 <= min < max, got [%g, %g]", p["min"], p["max"])
		}
	case "weibull":
		return requirePositive(p, "shape", "scale")
	case "deterministic":
		if p["value"] < 0 {
			return fmt.Errorf("deterministic value must be non-negative, got %g", p["value"])
		}
	}
	return nil
}

// NewSource builds the backing distribution described by spec, drawing
// randomness from src.
func NewSource(spec DistSpec, src rand.Source) (Source, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	p := spec.Params
	var d Continuous
	switch spec.Type {
	case "exponential":
		rate := p["rate"]
		if m, ok := p["mean"]; ok {
			rate = 1 / m
		}
		d = distuv.Exponential{Rate: rate, Src: src}
	case "gamma":
		d = distuv.Gamma{Alpha: p["shape"], Beta: p["rate"], Src: src}
	case "erlang":
		d = distuv.Gamma{Alpha: p["k"], Beta: p["rate"], Src: src}
	case "lognormal":
		d = distuv.LogNormal{Mu: p["mu"], Sigma: p["sigma"], Src: src}
	case "uniform":
		d = distuv.Uniform{Min: p["min"], Max: p["max"], Src: src}
	case "weibull":
		d = distuv.Weibull{K: p["shape"], Lambda: p["scale"], Src: src}
	case "deterministic":
		d = Deterministic{Value: p["value"]}
	}
	return NewAnalytic(spec.String(), d), nil
}

// New builds a batched Distribution for spec.
func New(spec DistSpec, src rand.Source, opts ...Option) (*Distribution, error) {
	s, err := NewSource(spec, src)
	if err != nil {
		return nil, err
	}
	return NewDistribution(s, opts...)
}

// IsExponential reports whether spec describes an exponential distribution,
// returning its rate.
func (s DistSpec) IsExponential() (float64, bool) {
	if s.Type != "exponential" {
		return 0, false
	}
	if m, ok := s.Params["mean"]; ok {
		return 1 / m, true
	}
	return s.Params["rate"], true
}
