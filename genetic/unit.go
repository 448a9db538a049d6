package genetic

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/baldhumanity/neuroflap/genetic/nn"
)

// Unit is one candidate controller: a network plus evolutionary bookkeeping.
type Unit struct {
	Index    int         // Slot in the population, 0..MaxUnits-1.
	Network  *nn.Network // Owned controller network.
	Fitness  float64     // Fitness of the current episode, may be negative.
	Score    int         // Score of the current episode.
	IsWinner bool        // Set by Select for the parents of the next generation.
}

// NewUnit wraps a network in a fresh unit for the given slot.
func NewUnit(index int, network *nn.Network) *Unit {
	return &Unit{
		Index:   index,
		Network: network,
	}
}

// String returns a string representation of the Unit.
func (u *Unit) String() string {
	return fmt.Sprintf("Unit(Index: %d, Fitness: %.2f, Score: %d, Winner: %t)", u.Index, u.Fitness, u.Score, u.IsWinner)
}

// Population is the ordered set of units of one generation. At rest it is
// sorted by Index so units can be addressed positionally.
type Population []*Unit

// NewPopulation creates size units with fresh random networks.
func NewPopulation(rng *rand.Rand, layout nn.Layout, size int) (Population, error) {
	pop := make(Population, 0, size)
	for i := 0; i < size; i++ {
		net, err := nn.NewPerceptron(rng, layout)
		if err != nil {
			return nil, fmt.Errorf("failed to create network for unit %d: %w", i, err)
		}
		pop = append(pop, NewUnit(i, net))
	}
	return pop, nil
}

// SortByIndex restores ascending index order.
func (p Population) SortByIndex() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Index < p[j].Index
	})
}

// Fitnesses returns the fitness of every unit in current order.
func (p Population) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, u := range p {
		out[i] = u.Fitness
	}
	return out
}

// Winners returns the units currently flagged as winners, in population order.
func (p Population) Winners() []*Unit {
	var out []*Unit
	for _, u := range p {
		if u.IsWinner {
			out = append(out, u)
		}
	}
	return out
}
