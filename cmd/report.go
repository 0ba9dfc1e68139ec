package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ggcsim/ggcsim/sim"
	"github.com/ggcsim/ggcsim/sim/queueing"
	"github.com/ggcsim/ggcsim/sim/trace"
)

// PrintReport displays the results of a finished run.
// Includes the mean queue length, the first topK queue-length probabilities,
// the overflow bucket and, for stable M/M/c scenarios, the Erlang C reference.
func PrintReport(w io.Writer, sc *Scenario, res *sim.Results, topK int) error {
	mean, err := res.MeanQueueLength()
	if err != nil {
		return err
	}
	probs, err := res.QueueLengthProbabilities()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Simulation Results ===")
	fmt.Fprintf(w, "Arrival process      : %s\n", sc.Arrival)
	fmt.Fprintf(w, "Service process      : %s\n", sc.Service)
	fmt.Fprintf(w, "Servers              : %d\n", sc.Servers)
	fmt.Fprintf(w, "Observed time        : %.4f\n", res.ObservedTime())
	fmt.Fprintf(w, "Events dispatched    : %d\n", res.Observations())
	fmt.Fprintf(w, "Mean queue length    : %.4f\n", mean)

	last := len(probs) - 1
	for k := 0; k < min(topK, last); k++ {
		fmt.Fprintf(w, "P(Q = %-5d)         : %.6f\n", k, probs[k])
	}
	fmt.Fprintf(w, "P(Q >= %-5d)        : %.6f\n", last, probs[last])

	lambda, arrExp := sc.Arrival.IsExponential()
	mu, servExp := sc.Service.IsExponential()
	if !arrExp || !servExp {
		return nil
	}
	model, err := queueing.NewMMc(lambda, mu, sc.Servers)
	if errors.Is(err, queueing.ErrUnstable) {
		fmt.Fprintf(w, "M/M/%d reference     : unstable (rho >= 1)\n", sc.Servers)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "M/M/%d utilization   : %.4f\n", sc.Servers, model.Utilization())
	fmt.Fprintf(w, "M/M/%d mean in system: %.4f\n", sc.Servers, model.MeanInSystem())
	return nil
}

// PrintTrace displays the retained dispatch records of a traced run.
func PrintTrace(w io.Writer, tr *trace.SimulationTrace) {
	fmt.Fprintf(w, "=== Dispatch Trace (run %s) ===\n", tr.RunID)
	if d := tr.Dropped(); d > 0 {
		fmt.Fprintf(w, "... %d earlier dispatches omitted\n", d)
	}
	for _, r := range tr.Records() {
		fmt.Fprintln(w, r)
	}
	sum := trace.Summarize(tr)
	fmt.Fprintf(w, "Retained: %d (%d arrivals, %d departures) over %.6f, max queue %d\n",
		sum.Retained, sum.KindDistribution["arrival"], sum.KindDistribution["departure"], sum.Span, sum.MaxQueue)
}
