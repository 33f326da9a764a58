package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/moran-sim/moran-sim/sim/timeseries"
)

// ScenarioFile describes a batch of runs, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML": a run falls back to Defaults,
// and a parameter missing from both is an error.
type ScenarioFile struct {
	OutputDir string           `yaml:"output_dir"`
	Format    string           `yaml:"format"`
	Seed      *int64           `yaml:"seed"`
	Fallback  string           `yaml:"fallback"`
	Defaults  ScenarioParams   `yaml:"defaults"`
	Runs      []ScenarioParams `yaml:"runs"`
}

// ScenarioParams holds the parameters of one run; any of them may be inherited.
type ScenarioParams struct {
	Name  string   `yaml:"name"`
	Model string   `yaml:"model"`
	TMax  *float64 `yaml:"tmax"`
	NTot  *int     `yaml:"ntot"`
	S     *float64 `yaml:"s"`
	D     *float64 `yaml:"d"`
	L     *float64 `yaml:"l"`
	P     *float64 `yaml:"p"`
	Seed  *int64   `yaml:"seed"`
}

// Scenario is one fully resolved run of a ScenarioFile.
type Scenario struct {
	Name   string
	Config Config
	Output string // output path: <output_dir>/<name>.<ext>
}

// LoadScenarioFile reads and parses a YAML scenario file. Unknown fields are errors.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var sf ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return &sf, nil
}

// Validate checks the file-level settings and that every run resolves to a valid Config.
func (sf *ScenarioFile) Validate() error {
	if !timeseries.ValidFormats[timeseries.Format(sf.Format)] {
		return fmt.Errorf("unknown output format %q", sf.Format)
	}
	if len(sf.Runs) == 0 {
		return fmt.Errorf("scenario file has no runs")
	}
	_, err := sf.Resolve()
	return err
}

// Resolve merges each run with the defaults and returns the runs in file order.
func (sf *ScenarioFile) Resolve() ([]Scenario, error) {
	dir := sf.OutputDir
	if dir == "" {
		dir = "outputs"
	}
	ext := ".csv"
	if timeseries.Format(sf.Format) == timeseries.FormatSQLite {
		ext = ".db"
	}

	scenarios := make([]Scenario, 0, len(sf.Runs))
	seen := make(map[string]int, len(sf.Runs))
	for i, run := range sf.Runs {
		cfg, err := sf.resolveRun(run)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		name := run.Name
		if name == "" {
			name = ScenarioName(cfg)
		}
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("run %d: output name %q already used by run %d", i, name, prev)
		}
		seen[name] = i

		output := filepath.Join(dir, name+ext)
		if ext == ".db" {
			// all runs share one database, keyed by run ID
			output = filepath.Join(dir, "runs.db")
		}
		scenarios = append(scenarios, Scenario{Name: name, Config: cfg, Output: output})
	}
	return scenarios, nil
}

func (sf *ScenarioFile) resolveRun(run ScenarioParams) (Config, error) {
	d := sf.Defaults
	model := run.Model
	if model == "" {
		model = d.Model
	}
	tmax, err := pick("tmax", run.TMax, d.TMax)
	if err != nil {
		return Config{}, err
	}
	nTot, err := pick("ntot", run.NTot, d.NTot)
	if err != nil {
		return Config{}, err
	}
	s, err := pick("s", run.S, d.S)
	if err != nil {
		return Config{}, err
	}
	dd, err := pick("d", run.D, d.D)
	if err != nil {
		return Config{}, err
	}
	l, err := pick("l", run.L, d.L)
	if err != nil {
		return Config{}, err
	}
	p, err := pick("p", run.P, d.P)
	if err != nil {
		return Config{}, err
	}

	cfg := NewConfig(Regime(model), tmax, nTot, s, dd, l, p)
	cfg.Fallback = FallbackPolicy(sf.Fallback)
	switch {
	case run.Seed != nil:
		cfg.Seed = *run.Seed
	case d.Seed != nil:
		cfg.Seed = *d.Seed
	case sf.Seed != nil:
		cfg.Seed = *sf.Seed
	}
	return cfg, nil
}

func pick[T any](name string, v, fallback *T) (T, error) {
	if v != nil {
		return *v, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	var zero T
	return zero, fmt.Errorf("%s not set in run or defaults", name)
}

// ScenarioName returns the conventional output name "model_<M>_s_<s>_d_<d>",
// which analysis scripts split on underscores into key/value pairs.
func ScenarioName(cfg Config) string {
	return fmt.Sprintf("model_%s_s_%s_d_%s", cfg.Regime,
		strconv.FormatFloat(cfg.S, 'g', -1, 64), strconv.FormatFloat(cfg.D, 'g', -1, 64))
}
