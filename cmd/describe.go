package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ggcsim/ggcsim/sim"
	"github.com/ggcsim/ggcsim/sim/dist"
)

var (
	describeType   string
	describeParams map[string]string
	describeAlpha  float64
)

// describeCmd prints the analytic summary of a distribution without simulating.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print analytic properties of a distribution",
	Run: func(cmd *cobra.Command, args []string) {
		params, err := parseParams(describeParams)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		spec := dist.DistSpec{Type: describeType, Params: params}
		src, err := dist.NewSource(spec, sim.NewPartitionedRNG(sim.NewSimulationKey(0)).ForSubsystem(sim.SubsystemArrival))
		if err != nil {
			logrus.Fatalf("Invalid distribution: %v", err)
		}
		if err := Describe(os.Stdout, spec, src, describeAlpha); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// Describe writes mean, spread, median, an alpha interval and the first
// three raw moments of src.
func Describe(w io.Writer, spec dist.DistSpec, src dist.Source, alpha float64) error {
	lo, hi, err := src.Interval(alpha)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "=== %s ===\n", spec)
	fmt.Fprintf(w, "Mean      : %.6f\n", src.Mean())
	fmt.Fprintf(w, "Variance  : %.6f\n", src.Variance())
	fmt.Fprintf(w, "Median    : %.6f\n", src.Median())
	fmt.Fprintf(w, "%4.1f%% int : [%.6f, %.6f]\n", alpha*100, lo, hi)
	for k := 1; k <= 3; k++ {
		m, err := src.Moment(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "E[X^%d]    : %.6f\n", k, m)
	}
	return nil
}

func init() {
	describeCmd.Flags().StringVar(&describeType, "dist", "exponential",
		"Distribution type ("+strings.Join(dist.ValidTypes(), ", ")+")")
	describeCmd.Flags().StringToStringVar(&describeParams, "params", map[string]string{"rate": "1"}, "Distribution parameters (key=value,...)")
	describeCmd.Flags().Float64Var(&describeAlpha, "alpha", 0.95, "Probability mass of the reported central interval")

	rootCmd.AddCommand(describeCmd)
}
