package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moran-sim/moran-sim/sim"
	"github.com/moran-sim/moran-sim/sim/timeseries"
	"github.com/moran-sim/moran-sim/sim/trace"
)

// runOptions is everything needed to execute and report one simulation.
type runOptions struct {
	Config     sim.Config
	Output     string
	Format     timeseries.Format
	TraceLevel trace.TraceLevel
	TraceOut   string
	HeaderOut  string
	MetricsOut string
	Summary    bool
}

// validate rejects bad options before any output destination is touched.
func (o runOptions) validate() error {
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if !timeseries.ValidFormats[o.Format] {
		return fmt.Errorf("unknown output format %q", o.Format)
	}
	if !trace.IsValidTraceLevel(string(o.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", o.TraceLevel)
	}
	if o.TraceOut != "" && o.TraceLevel != trace.TraceLevelEvents {
		return fmt.Errorf("--trace-out requires --trace=%s", trace.TraceLevelEvents)
	}
	return nil
}

func (o runOptions) header() timeseries.RunHeader {
	c := o.Config
	h := timeseries.NewRunHeader(string(c.Regime), c.Horizon, c.NTot, c.S, c.D, c.L, c.P, c.Seed)
	h.Fallback = string(c.Fallback)
	h.Output = o.Output
	return h
}

// executeRun opens the recorder, runs the simulation to the horizon, writes the optional
// side outputs and prints the completion lines to out.
func executeRun(opts runOptions, out io.Writer) (*sim.Simulator, error) {
	header := opts.header()
	recorder, err := timeseries.Open(opts.Format, opts.Output, header)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", opts.Output, err)
	}

	start := time.Now()
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	s := sim.NewSeededSimulator(opts.Config, recorder, tr)
	logrus.Infof("Starting simulation run %s: model=%s seed=%d output=%s", header.RunID, opts.Config.Regime, opts.Config.Seed, opts.Output)

	runErr := s.Run()
	closeErr := recorder.Close()
	if runErr != nil {
		return s, runErr
	}
	if closeErr != nil {
		return s, fmt.Errorf("closing %s: %w", opts.Output, closeErr)
	}
	elapsed := time.Since(start)
	s.Metrics.WallTime = elapsed

	if opts.HeaderOut != "" {
		if err := timeseries.WriteHeader(header, opts.HeaderOut); err != nil {
			return s, err
		}
	}
	if opts.TraceOut != "" {
		if err := tr.Export(opts.TraceOut); err != nil {
			return s, err
		}
	}
	if opts.MetricsOut != "" {
		if err := s.Metrics.WriteTextfile(opts.Config.Regime, opts.MetricsOut); err != nil {
			return s, err
		}
	}

	_, _ = fmt.Fprintf(out, "Simulation (Model %s) finished. Data saved to file %s.\n", opts.Config.Regime, opts.Output)
	_, _ = fmt.Fprintf(out, "Execution time: %g seconds\n", elapsed.Seconds())
	if opts.Summary {
		s.Metrics.Print(out)
		if tr.Enabled() {
			ts := trace.Summarize(tr)
			_, _ = fmt.Fprintf(out, "Trace: %d events, %d self-replacements, %d driver / %d passenger mutations\n",
				ts.TotalEvents, ts.SelfReplacements, ts.DriverMutations, ts.PassengerMutations)
		}
	}
	return s, nil
}
