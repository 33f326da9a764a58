package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.seed, int64(NewSimulationKey(tt.seed)))
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42)).ForSubsystem(SubsystemEvolution)
	rng2 := NewPartitionedRNG(NewSimulationKey(42)).ForSubsystem(SubsystemEvolution)

	for i := 0; i < 5; i++ {
		assert.Equal(t, rng1.ExpFloat64(), rng2.ExpFloat64(), "exp draw %d", i)
		assert.Equal(t, rng1.Float64(), rng2.Float64(), "float draw %d", i)
		assert.Equal(t, rng1.Intn(100), rng2.Intn(100), "int draw %d", i)
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Drawing from one comparison stream doesn't affect the evolution stream
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemCompare(RegimeA)).Float64()
	}
	for i := 0; i < 5; i++ {
		rngB.ForSubsystem(SubsystemEvolution).Float64()
	}

	aFirst := rngA.ForSubsystem(SubsystemEvolution).Float64()
	bSixth := rngB.ForSubsystem(SubsystemEvolution).Float64()
	expectedFirst := NewPartitionedRNG(NewSimulationKey(42)).ForSubsystem(SubsystemEvolution).Float64()

	assert.Equal(t, expectedFirst, aFirst, "isolation broken")
	assert.NotEqual(t, expectedFirst, bSixth)
}

func TestPartitionedRNG_EvolutionUsesMasterSeed(t *testing.T) {
	// --seed N reproduces the same stream as rand.NewSource(N)
	for _, seed := range []int64{0, 42, -7, math.MinInt64} {
		evolution := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemEvolution)
		direct := newRandFromSeed(seed)
		for i := 0; i < 10; i++ {
			require.Equal(t, direct.Float64(), evolution.Float64(), "seed %d value %d", seed, i)
		}
	}
}

func TestPartitionedRNG_CompareStreamsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	a := rng.ForSubsystem(SubsystemCompare(RegimeA)).Float64()
	b := rng.ForSubsystem(SubsystemCompare(RegimeB)).Float64()
	evo := rng.ForSubsystem(SubsystemEvolution).Float64()

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, evo)
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Same(t, rng.ForSubsystem(SubsystemEvolution), rng.ForSubsystem(SubsystemEvolution))
}

func TestPartitionedRNG_Key(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(12345))
	assert.Equal(t, SimulationKey(12345), rng.Key())
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Empty(t, rng.streams)

	rng.ForSubsystem(SubsystemEvolution)
	assert.Len(t, rng.streams, 1)
}

func TestPartitionedRNG_SatisfiesRandomSource(t *testing.T) {
	var src RandomSource = NewPartitionedRNG(NewSimulationKey(1)).ForSubsystem(SubsystemEvolution)
	v := src.Float64()
	assert.True(t, v >= 0 && v < 1)
	assert.Greater(t, src.ExpFloat64(), 0.0)
	n := src.Intn(3)
	assert.True(t, n >= 0 && n < 3)
}

// === fnv1a64 / subsystem names ===

func TestFnv1a64_NoCollisionAcrossSubsystems(t *testing.T) {
	names := []string{SubsystemEvolution, SubsystemCompare(RegimeA), SubsystemCompare(RegimeB), ""}
	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

func TestSubsystemCompare(t *testing.T) {
	assert.Equal(t, "compare_A", SubsystemCompare(RegimeA))
	assert.Equal(t, "compare_B", SubsystemCompare(RegimeB))
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemEvolution)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemEvolution)
	}
}

// newRandFromSeed creates a *rand.Rand with the given seed.
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
