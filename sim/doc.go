// Package sim provides the stochastic simulation engine for clonal evolution in a
// fixed-size cell population.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - clone.go: Clone records and the never-shrinking CloneRegistry
//   - sampler.go: propensities, exponential waiting time and event class (Gillespie step)
//   - event.go: DivisionDeathEvent and MutationEvent, the two ways state changes
//   - simulator.go: the event loop, recording and termination
//
// # Model
//
// A clone with k driver and l passenger mutations has fitness (1+s)^k (1-d)^l and
// division propensity population × fitness. The mutation channel has a flat rate L.
// Each step either replaces one cell by the offspring of another (division/death) or
// moves one cell into a new single-cell clone carrying one more mutation (mutation).
// The total population never changes.
//
// Two regimes decide which cell dies in a division/death event:
//   - Regime A: proportional to division propensity (fitness-dependent)
//   - Regime B: uniformly over cells (fitness-independent)
//
// # Randomness
//
// A run draws from exactly one RandomSource, in a fixed order: waiting time, event class,
// clone selection(s), mutation type. NewSeededSimulator derives that stream from a
// PartitionedRNG so a seed reproduces a run bit for bit.
//
// # Sub-packages
//
//   - sim/timeseries/: Recorder implementations (CSV, SQLite, memory) and the run header
//   - sim/trace/: per-event decision trace
//   - sim/analysis/: chi-square comparison of death selection between regimes
package sim
