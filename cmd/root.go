package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ggcsim/ggcsim/sim/trace"
)

var (
	// CLI flags for the run command
	scenarioPath   string            // YAML scenario file
	seed           int64             // Master seed for the arrival and service streams
	horizon        float64           // Simulation horizon (in model time units)
	servers        int               // Number of identical servers
	maxQueueLength int               // Overflow bucket of the queue-length histogram
	batchSize      int               // Initial pre-sampled batch per distribution
	arrivalType    string            // Arrival distribution type
	arrivalParams  map[string]string // Arrival distribution parameters
	serviceType    string            // Service distribution type
	serviceParams  map[string]string // Service distribution parameters
	logLevel       string            // Log verbosity level
	traceSize      int               // Number of trailing dispatches to print (0 = off)
	topK           int               // Number of queue-length probabilities to print
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ggcsim",
	Short: "Discrete-event simulator for G/G/c queues",
}

// runCmd executes the simulation using the scenario file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a G/G/c queue simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		sc, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		var tr *trace.SimulationTrace
		if traceSize > 0 {
			tr = trace.NewSimulationTrace(traceSize)
		}
		s, err := sc.NewSimulator(tr)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Scenario: seed=%d servers=%d horizon=%g arrival=%s service=%s",
			sc.Seed, sc.Servers, sc.Horizon, sc.Arrival, sc.Service)
		startTime := time.Now()

		res, err := s.Simulate(sc.Horizon)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation took %v", time.Since(startTime))

		if tr != nil {
			PrintTrace(os.Stdout, tr)
		}
		if err := PrintReport(os.Stdout, sc, res, topK); err != nil {
			logrus.Fatalf("Report failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// resolveScenario starts from the scenario file (or the built-in default)
// and applies every flag the user set explicitly on top of it.
func resolveScenario(cmd *cobra.Command) (*Scenario, error) {
	sc := DefaultScenario()
	if scenarioPath != "" {
		loaded, err := LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		sc.Seed = seed
	}
	if flags.Changed("horizon") {
		sc.Horizon = horizon
	}
	if flags.Changed("servers") {
		sc.Servers = servers
	}
	if flags.Changed("max-queue-length") {
		sc.MaxQueueLength = maxQueueLength
	}
	if flags.Changed("batch-size") {
		sc.BatchSize = batchSize
	}
	if flags.Changed("arrival-dist") {
		sc.Arrival.Type = arrivalType
		sc.Arrival.Params = nil
	}
	if flags.Changed("arrival-params") {
		p, err := parseParams(arrivalParams)
		if err != nil {
			return nil, err
		}
		sc.Arrival.Params = p
	}
	if flags.Changed("service-dist") {
		sc.Service.Type = serviceType
		sc.Service.Params = nil
	}
	if flags.Changed("service-params") {
		p, err := parseParams(serviceParams)
		if err != nil {
			return nil, err
		}
		sc.Service.Params = p
	}
	return sc, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags of cmd to the package-level flag variables.
func registerRunFlags(cmd *cobra.Command) {
	def := DefaultScenario()

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file; explicit flags override its values")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for the arrival and service random streams")
	cmd.Flags().Float64Var(&horizon, "horizon", def.Horizon, "Simulation horizon (in model time units)")
	cmd.Flags().IntVar(&servers, "servers", def.Servers, "Number of identical servers")
	cmd.Flags().IntVar(&maxQueueLength, "max-queue-length", def.MaxQueueLength, "Queue length collected into the overflow histogram bucket")
	cmd.Flags().IntVar(&batchSize, "batch-size", def.BatchSize, "Initial number of variates pre-sampled per distribution")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().IntVar(&traceSize, "trace", 0, "Print the last N dispatched events (0 disables tracing)")
	cmd.Flags().IntVar(&topK, "top", 10, "Number of queue-length probabilities to print")

	// Process distributions
	cmd.Flags().StringVar(&arrivalType, "arrival-dist", def.Arrival.Type, "Inter-arrival time distribution type")
	cmd.Flags().StringToStringVar(&arrivalParams, "arrival-params", map[string]string{"rate": "5"}, "Inter-arrival distribution parameters (key=value,...)")
	cmd.Flags().StringVar(&serviceType, "service-dist", def.Service.Type, "Service time distribution type")
	cmd.Flags().StringToStringVar(&serviceParams, "service-params", map[string]string{"rate": "1"}, "Service distribution parameters (key=value,...)")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
