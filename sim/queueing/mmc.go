// Package queueing holds closed-form reference models used to sanity-check
// simulated results.
package queueing

import (
	"errors"
	"fmt"
)

var ErrUnstable = errors.New("utilization must be below 1 for a steady state")

// MMc is an M/M/c queue: Poisson arrivals at Lambda, exponential service at
// Mu per server, Servers identical servers.
type MMc struct {
	Lambda  float64 // arrival rate
	Mu      float64 // service rate per server
	Servers int     // number of servers

	rho    float64 // utilization per server
	erlang float64 // probability an arrival waits
}

// NewMMc validates the parameters and solves the model.
func NewMMc(lambda, mu float64, servers int) (*MMc, error) {
	if lambda <= 0 || mu <= 0 {
		return nil, fmt.Errorf("rates must be positive, got lambda=%g mu=%g", lambda, mu)
	}
	if servers <= 0 {
		return nil, fmt.Errorf("server count must be positive, got %d", servers)
	}
	m := &MMc{Lambda: lambda, Mu: mu, Servers: servers}
	m.rho = lambda / (float64(servers) * mu)
	if m.rho >= 1 {
		return nil, fmt.Errorf("rho=%.4f: %w", m.rho, ErrUnstable)
	}
	m.erlang = erlangC(lambda/mu, servers)
	return m, nil
}

// erlangC computes the probability of waiting for offered load a and c
// servers, building a^k/k! incrementally to stay finite for large c.
func erlangC(a float64, c int) float64 {
	term := 1.0 // a^k / k!
	sum := 0.0
	for k := 0; k < c; k++ {
		sum += term
		term *= a / float64(k+1)
	}
	// term is now a^c / c!
	rho := a / float64(c)
	tail := term / (1 - rho)
	return tail / (sum + tail)
}

// Utilization returns the per-server utilization.
func (m *MMc) Utilization() float64 { return m.rho }

// ProbWait returns the Erlang C probability that an arrival has to wait.
func (m *MMc) ProbWait() float64 { return m.erlang }

// MeanWaiting returns the mean number of customers waiting for service (Lq).
func (m *MMc) MeanWaiting() float64 {
	return m.erlang * m.rho / (1 - m.rho)
}

// MeanInSystem returns the mean number of customers in the system (L),
// which is what the simulator reports as queue length.
func (m *MMc) MeanInSystem() float64 {
	return m.MeanWaiting() + m.Lambda/m.Mu
}

// MeanResponseTime returns the mean time in system (W) by Little's law.
func (m *MMc) MeanResponseTime() float64 {
	return m.MeanInSystem() / m.Lambda
}
