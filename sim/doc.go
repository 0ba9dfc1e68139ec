// Package sim provides the core discrete-event simulation engine for G/G/c queues.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the Arrival and Departure events and their ordering
//   - fes.go: the future event set that drives the clock
//   - simulator.go: the event loop and the queue-length state machine
//   - results.go: time-weighted queue-length statistics
//
// # Architecture
//
// The sim package owns the kernel; supporting pieces live in sub-packages:
//   - sim/dist/: batched sampling over gonum distributions
//   - sim/trace/: bounded dispatch trace for debugging
//   - sim/queueing/: closed-form M/M/c reference model
//
// A run is single-threaded and synchronous. Reproducibility comes from
// PartitionedRNG: arrival and service draws use separate, explicitly seeded
// streams, so two runs with the same seed and configuration produce
// bit-identical Results.
package sim
