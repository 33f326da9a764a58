package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitnessModel_Fitness(t *testing.T) {
	m := FitnessModel{S: 0.1, D: 0.05}
	tests := []struct {
		drivers, passengers int
		want                float64
	}{
		{0, 0, 1},
		{1, 0, 1.1},
		{0, 1, 0.95},
		{1, 1, 1.045},
		{2, 0, 1.21},
		{0, 2, 0.9025},
		{3, 2, 1.331 * 0.9025},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.Fitness(tt.drivers, tt.passengers), 1e-12, "k=%d l=%d", tt.drivers, tt.passengers)
	}
}

func TestFitnessModel_Neutral(t *testing.T) {
	// s = d = 0: every clone has fitness 1 and propensity equals population
	m := FitnessModel{}
	for _, c := range []Clone{{0, 0, 3}, {5, 0, 2}, {0, 7, 9}, {4, 4, 1}} {
		assert.Equal(t, 1.0, m.Fitness(c.Drivers, c.Passengers))
		assert.Equal(t, float64(c.Population), m.Propensity(c))
	}
}

func TestFitnessModel_FullPassengerPenalty(t *testing.T) {
	m := FitnessModel{S: 0.2, D: 1}
	assert.Equal(t, 0.0, m.Fitness(3, 1))
	assert.InDelta(t, 1.728, m.Fitness(3, 0), 1e-12)
}

func TestBuildPropensityTable_SkipsExtinct(t *testing.T) {
	// GIVEN a registry with an extinct clone in the middle
	m := FitnessModel{S: 0.1, D: 0.05}
	r := NewCloneRegistryFrom([]Clone{{0, 0, 8}, {1, 0, 0}, {1, 1, 2}})

	// WHEN the table is built
	tbl := m.BuildPropensityTable(r)

	// THEN only active clones appear, in registry order
	assert.Equal(t, []int{0, 2}, tbl.Indices)
	assert.InDeltaSlice(t, []float64{8, 2 * 1.045}, tbl.Propensities, 1e-12)
	assert.InDelta(t, 10.09, tbl.Total, 1e-12)
}

func TestBuildPropensityTable_Initial(t *testing.T) {
	tbl := FitnessModel{S: 0.1, D: 0.05}.BuildPropensityTable(NewCloneRegistry(10))
	assert.Equal(t, []int{0}, tbl.Indices)
	assert.Equal(t, 10.0, tbl.Total)
}
