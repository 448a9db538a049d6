package genetic

import (
	"sort"
)

// Select sorts the population by fitness, highest first, and marks the best
// topUnits units as winners. Ties keep their previous relative order, which
// is index order when the population is at rest.
//
// The population is left in fitness order; callers restore index order with
// SortByIndex once they are done with it.
func Select(pop Population, topUnits int) []*Unit {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].Fitness > pop[j].Fitness
	})

	if topUnits > len(pop) {
		topUnits = len(pop)
	}
	for i := 0; i < topUnits; i++ {
		pop[i].IsWinner = true
	}

	winners := make([]*Unit, topUnits)
	copy(winners, pop[:topUnits])
	return winners
}
