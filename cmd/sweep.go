package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moran-sim/moran-sim/sim"
	"github.com/moran-sim/moran-sim/sim/timeseries"
	"github.com/moran-sim/moran-sim/sim/trace"
)

var sweepConfigPath string // Path to the YAML scenario file

// sweepCmd runs every scenario of a YAML file, one after another
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a batch of simulations described by a YAML scenario file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(logLevel); err != nil {
			return err
		}
		sf, err := sim.LoadScenarioFile(sweepConfigPath)
		if err != nil {
			return err
		}
		seedSet := cmd.Flags().Changed("seed")
		cliSeed := seed
		if !seedSet && sf.Seed == nil {
			cliSeed = resolveSeed(cmd)
		}
		applySweepFlags(sf, seedSet, cliSeed, cmd.Flags().Changed("fallback"), fallback)
		if err := sf.Validate(); err != nil {
			return fmt.Errorf("invalid scenario file %s: %w", sweepConfigPath, err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("unknown trace level %q", traceLevel)
		}
		cmd.SilenceUsage = true
		return runSweep(sf, cmd.OutOrStdout())
	},
}

// applySweepFlags merges the CLI flags into a loaded scenario file. An explicit --seed
// replaces every seed in the file; otherwise cliSeed only fills a missing file seed.
// An explicit --fallback wins over the file, and the flag default fills a missing one.
func applySweepFlags(sf *sim.ScenarioFile, seedSet bool, cliSeed int64, fallbackSet bool, cliFallback string) {
	switch {
	case seedSet:
		sf.Seed = &cliSeed
		sf.Defaults.Seed = nil
		for i := range sf.Runs {
			sf.Runs[i].Seed = nil
		}
	case sf.Seed == nil:
		sf.Seed = &cliSeed
	}
	if fallbackSet || sf.Fallback == "" {
		sf.Fallback = cliFallback
	}
}

// runSweep executes the resolved scenarios sequentially.
func runSweep(sf *sim.ScenarioFile, out io.Writer) error {
	scenarios, err := sf.Resolve()
	if err != nil {
		return err
	}
	for i, sc := range scenarios {
		if err := os.MkdirAll(filepath.Dir(sc.Output), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		logrus.Infof("Sweep run %d/%d: %s", i+1, len(scenarios), sc.Name)
		opts := runOptions{
			Config:     sc.Config,
			Output:     sc.Output,
			Format:     timeseries.Format(sf.Format),
			TraceLevel: trace.TraceLevel(traceLevel),
			Summary:    summary,
		}
		if _, err := executeRun(opts, out); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Path to the YAML scenario file")
	_ = sweepCmd.MarkFlagRequired("config")
}
