package sim

// Clone is a genetically homogeneous sub-population.
// Drivers and Passengers are fixed at creation; only Population changes afterwards.
type Clone struct {
	Drivers    int // accumulated driver mutations (k)
	Passengers int // accumulated passenger mutations (l)
	Population int // cells currently in this clone (n); 0 means extinct
}

// Extinct reports whether the clone has no cells left.
func (c Clone) Extinct() bool {
	return c.Population == 0
}

// CloneRegistry is the insertion-ordered, never-shrinking collection of clones.
// Extinct clones stay in place so that registry indices are stable for the whole run.
type CloneRegistry struct {
	clones []Clone
}

// NewCloneRegistry creates a registry holding a single wild-type clone {0, 0, nTot}.
func NewCloneRegistry(nTot int) *CloneRegistry {
	return &CloneRegistry{clones: []Clone{{Drivers: 0, Passengers: 0, Population: nTot}}}
}

// NewCloneRegistryFrom creates a registry from an explicit clone list (copied).
func NewCloneRegistryFrom(clones []Clone) *CloneRegistry {
	return &CloneRegistry{clones: append([]Clone(nil), clones...)}
}

// Len returns the number of clones ever created, extinct ones included.
func (r *CloneRegistry) Len() int {
	return len(r.clones)
}

// At returns a copy of the clone at index i.
func (r *CloneRegistry) At(i int) Clone {
	return r.clones[i]
}

// Clones returns a copy of the registry contents.
func (r *CloneRegistry) Clones() []Clone {
	return append([]Clone(nil), r.clones...)
}

// ActiveCount returns the number of clones with population > 0.
func (r *CloneRegistry) ActiveCount() int {
	n := 0
	for _, c := range r.clones {
		if c.Population > 0 {
			n++
		}
	}
	return n
}

// TotalPopulation returns the sum of populations over all clones.
func (r *CloneRegistry) TotalPopulation() int {
	total := 0
	for _, c := range r.clones {
		total += c.Population
	}
	return total
}

// transfer moves one cell from clone `from` to clone `to`.
// from == to is allowed and leaves the registry unchanged.
func (r *CloneRegistry) transfer(from, to int) {
	r.clones[from].Population--
	r.clones[to].Population++
}

// spawn removes one cell from the parent and appends a child carrying the
// parent's mutation counts plus one driver or one passenger. Returns the child index.
func (r *CloneRegistry) spawn(parent int, driver bool) int {
	r.clones[parent].Population--
	child := r.clones[parent]
	child.Population = 1
	if driver {
		child.Drivers++
	} else {
		child.Passengers++
	}
	r.clones = append(r.clones, child)
	return len(r.clones) - 1
}
