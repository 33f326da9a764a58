package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Regime selects how the dying cell of a division/death event is chosen.
type Regime string

const (
	// RegimeA picks the dying clone proportionally to division propensity (fitness-dependent death).
	RegimeA Regime = "A"
	// RegimeB picks the dying clone uniformly over cells (fitness-independent death).
	RegimeB Regime = "B"
)

// ValidRegimes is the set of recognized regime tags. Case-sensitive.
var ValidRegimes = map[Regime]bool{RegimeA: true, RegimeB: true}

// FallbackPolicy decides what happens when a roulette-wheel draw falls through
// every candidate because of floating-point rounding.
type FallbackPolicy string

const (
	// FallbackClamp selects the last candidate with positive weight.
	FallbackClamp FallbackPolicy = "clamp"
	// FallbackSkip leaves the selection empty, turning that part of the event into a no-op.
	FallbackSkip FallbackPolicy = "skip"
)

// ValidFallbackPolicies is the set of recognized fallback policy names.
// Empty means the default (clamp).
var ValidFallbackPolicies = map[FallbackPolicy]bool{"": true, FallbackClamp: true, FallbackSkip: true}

// Config groups the parameters of a single simulation run.
type Config struct {
	Regime   Regime         // death-selection regime, "A" or "B"
	Horizon  float64        // tmax: simulated time at which the run stops (exclusive)
	NTot     int            // fixed total population
	S        float64        // driver advantage, fitness factor (1+S) per driver
	D        float64        // passenger disadvantage, fitness factor (1-D) per passenger
	L        float64        // flat aggregate mutation rate, not scaled by population
	P        float64        // probability a mutation is a driver
	Seed     int64          // master seed for the evolution RNG stream
	Fallback FallbackPolicy // roulette fall-through handling (default clamp)
}

// NewConfig builds a Config from the positional run parameters.
// The seed and fallback policy keep their zero values until set by the caller.
func NewConfig(regime Regime, horizon float64, nTot int, s, d, l, p float64) Config {
	return Config{
		Regime:  regime,
		Horizon: horizon,
		NTot:    nTot,
		S:       s,
		D:       d,
		L:       l,
		P:       p,
	}
}

// Validate checks the regime tag and numeric parameter ranges.
func (c Config) Validate() error {
	if !ValidRegimes[c.Regime] {
		return fmt.Errorf("model type must be 'A' or 'B', got %q", c.Regime)
	}
	if !ValidFallbackPolicies[c.Fallback] {
		return fmt.Errorf("unknown fallback policy %q", c.Fallback)
	}
	params := []struct {
		name string
		v    float64
	}{{"tmax", c.Horizon}, {"s", c.S}, {"d", c.D}, {"L", c.L}, {"p", c.P}}
	for _, param := range params {
		if math.IsNaN(param.v) || math.IsInf(param.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", param.name, param.v)
		}
	}
	if c.Horizon < 0 {
		return fmt.Errorf("tmax must be non-negative, got %v", c.Horizon)
	}
	if c.NTot < 1 {
		return fmt.Errorf("Ntot must be at least 1, got %d", c.NTot)
	}
	if c.S <= -1 {
		return fmt.Errorf("s must be greater than -1, got %v", c.S)
	}
	if c.L < 0 {
		return fmt.Errorf("L must be non-negative, got %v", c.L)
	}
	if c.P < 0 || c.P > 1 {
		return fmt.Errorf("p must be in [0, 1], got %v", c.P)
	}
	if c.D > 1 {
		logrus.Warnf("d=%v makes the passenger factor (1-d) negative; propensities may change sign", c.D)
	}
	return nil
}

// fallback returns the effective fallback policy.
func (c Config) fallback() FallbackPolicy {
	if c.Fallback == "" {
		return FallbackClamp
	}
	return c.Fallback
}
