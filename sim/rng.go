package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run. Two runs with the same key and the same
// Config produce identical time series, row for row.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemEvolution names the stream that feeds every draw of the event loop.
// It is seeded with the master seed itself, so --seed N and rand.NewSource(N) agree.
const SubsystemEvolution = "evolution"

// SubsystemCompare names the death-sampling stream of one regime in a regime comparison.
func SubsystemCompare(regime Regime) string {
	return fmt.Sprintf("compare_%s", regime)
}

// RandomSource is the part of *rand.Rand the engine draws from.
// Tests substitute scripted sources to pin exact event sequences.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// ExpFloat64 returns an exponentially distributed value with rate 1.
	ExpFloat64() float64
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// PartitionedRNG hands out one independent, lazily created stream per named subsystem.
// A subsystem other than SubsystemEvolution is seeded with key XOR fnv1a64(name), so
// drawing from one stream never shifts another.
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates an empty partition for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls with the same name return the same *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.streams[name]; ok {
		return r
	}
	seed := int64(p.key)
	if name != SubsystemEvolution {
		seed ^= fnv1a64(name)
	}
	r := rand.New(rand.NewSource(seed))
	p.streams[name] = r
	return r
}

// Key returns the key the partition was created from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
