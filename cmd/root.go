package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moran-sim/moran-sim/sim"
	"github.com/moran-sim/moran-sim/sim/timeseries"
	"github.com/moran-sim/moran-sim/sim/trace"
)

var (
	// CLI flags shared by run and sweep
	seed       int64  // Seed for the evolution RNG stream (default: wall clock)
	logLevel   string // Log verbosity level
	format     string // Output format: csv or sqlite
	fallback   string // Roulette fall-through policy: clamp or skip
	traceLevel string // Decision trace level: none or events
	traceOut   string // Path for the YAML decision trace
	headerOut  string // Path for the YAML run header sidecar
	metricsOut string // Path for the Prometheus textfile export
	summary    bool   // Print run metrics after the completion line
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "moran-sim",
	Short: "Stochastic simulator for clonal evolution in a fixed-size cell population",
	Long: `Stochastic simulator for clonal evolution in a fixed-size cell population.

A single simulation takes its eight positional parameters after the run subcommand:

  moran-sim run ` + runArgsUsage + `

Scripts that passed the parameters directly to the program need the "run" prefix.`,
}

const runArgsUsage = "<MODEL_TYPE: A|B> <tmax> <Ntot> <s> <d> <L> <p> <output_file>"

// runCmd executes a single simulation from positional parameters
var runCmd = &cobra.Command{
	Use:   "run " + runArgsUsage,
	Short: "Run one simulation and write its time series",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 8 {
			return fmt.Errorf("usage: %s %s", cmd.CommandPath(), runArgsUsage)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(logLevel); err != nil {
			return err
		}
		cfg, output, err := parseRunArgs(args)
		if err != nil {
			return err
		}
		cfg.Seed = resolveSeed(cmd)
		cfg.Fallback = sim.FallbackPolicy(fallback)

		opts := runOptions{
			Config:     cfg,
			Output:     output,
			Format:     timeseries.Format(format),
			TraceLevel: trace.TraceLevel(traceLevel),
			TraceOut:   traceOut,
			HeaderOut:  headerOut,
			MetricsOut: metricsOut,
			Summary:    summary,
		}
		if err := opts.validate(); err != nil {
			return err
		}
		// Everything past validation is a runtime failure, not a usage error.
		cmd.SilenceUsage = true
		_, err = executeRun(opts, cmd.OutOrStdout())
		return err
	},
}

// parseRunArgs converts the eight positional arguments into a Config and output path.
func parseRunArgs(args []string) (sim.Config, string, error) {
	regime := sim.Regime(args[0])
	if !sim.ValidRegimes[regime] {
		return sim.Config{}, "", fmt.Errorf("model type must be 'A' or 'B', got %q", args[0])
	}
	floats := make([]float64, 0, 5)
	names := []string{"tmax", "s", "d", "L", "p"}
	positions := []int{1, 3, 4, 5, 6}
	for i, pos := range positions {
		v, err := strconv.ParseFloat(args[pos], 64)
		if err != nil {
			return sim.Config{}, "", fmt.Errorf("invalid %s %q: %w", names[i], args[pos], err)
		}
		floats = append(floats, v)
	}
	nTot, err := strconv.Atoi(args[2])
	if err != nil {
		return sim.Config{}, "", fmt.Errorf("invalid Ntot %q: %w", args[2], err)
	}
	cfg := sim.NewConfig(regime, floats[0], nTot, floats[1], floats[2], floats[3], floats[4])
	return cfg, args[7], nil
}

// resolveSeed returns the --seed value if set, otherwise a wall-clock seed.
func resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	s := time.Now().UnixNano()
	logrus.Infof("No --seed given; using wall-clock seed %d", s)
	return s
}

func setLogLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	logrus.SetLevel(level)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, sweepCmd} {
		c.Flags().Int64Var(&seed, "seed", 0, "Seed for the evolution RNG stream (default: wall-clock time)")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&fallback, "fallback", string(sim.FallbackClamp), "Roulette fall-through policy (clamp, skip)")
		c.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, events)")
		c.Flags().BoolVar(&summary, "summary", false, "Print run metrics after completion")
	}

	runCmd.Flags().StringVar(&format, "format", string(timeseries.FormatCSV), "Output format (csv, sqlite)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the decision trace as YAML to this path")
	runCmd.Flags().StringVar(&headerOut, "header", "", "Write a YAML run header sidecar to this path")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write run metrics in Prometheus text format to this path")

	rootCmd.AddCommand(runCmd, sweepCmd, compareCmd)
}
