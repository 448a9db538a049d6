package genetic

import (
	"fmt"
	"math/rand"

	"github.com/baldhumanity/neuroflap/genetic/nn"
)

// CrossoverPair performs a single point crossover on the neuron biases of two
// parent snapshots. A cut point c is drawn uniformly from [0, len(neurons)-1]
// and every bias at position >= c is exchanged between the parents.
//
// The parents are not modified; the two returned children are new values.
// Connection weights are not crossed over: each child keeps the weights of
// the parent it started from.
func CrossoverPair(rng *rand.Rand, parentA, parentB nn.Snapshot) (nn.Snapshot, nn.Snapshot, error) {
	if rng == nil {
		return nn.Snapshot{}, nn.Snapshot{}, fmt.Errorf("random source is required")
	}
	if err := parentA.CheckCompatible(parentB); err != nil {
		return nn.Snapshot{}, nn.Snapshot{}, fmt.Errorf("crossover: %w", err)
	}
	if len(parentA.Neurons) == 0 {
		return nn.Snapshot{}, nn.Snapshot{}, fmt.Errorf("crossover: %w: parents have no neurons", nn.ErrStructuralMismatch)
	}

	childA, childB := parentA.Clone(), parentB.Clone()
	cutPoint := rng.Intn(len(parentA.Neurons))
	for i := cutPoint; i < len(childA.Neurons); i++ {
		childA.Neurons[i].Bias = parentB.Neurons[i].Bias
		childB.Neurons[i].Bias = parentA.Neurons[i].Bias
	}
	return childA, childB, nil
}

// Crossover runs CrossoverPair and returns one of the two children, chosen by
// a fair coin flip.
func Crossover(rng *rand.Rand, parentA, parentB nn.Snapshot) (nn.Snapshot, error) {
	childA, childB, err := CrossoverPair(rng, parentA, parentB)
	if err != nil {
		return nn.Snapshot{}, err
	}
	if rng.Intn(2) == 1 {
		return childA, nil
	}
	return childB, nil
}

// Mutate returns a copy of the offspring snapshot where every neuron bias and
// then every connection weight has been passed through mutateGene.
func Mutate(rng *rand.Rand, offspring nn.Snapshot, mutateRate float64) nn.Snapshot {
	out := offspring.Clone()
	for i := range out.Neurons {
		out.Neurons[i].Bias = mutateGene(rng, out.Neurons[i].Bias, mutateRate)
	}
	for i := range out.Connections {
		out.Connections[i].Weight = mutateGene(rng, out.Connections[i].Weight, mutateRate)
	}
	return out
}

// mutateGene scales the gene by 1 + ((U1-0.5)*3 + (U2-0.5)) with probability
// mutateRate. The factor lies in (-1, 3) and may flip the gene's sign.
func mutateGene(rng *rand.Rand, gene, mutateRate float64) float64 {
	if rng.Float64() < mutateRate {
		mutateFactor := 1 + ((rng.Float64()-0.5)*3 + (rng.Float64() - 0.5))
		gene *= mutateFactor
	}
	return gene
}

// pickRandom returns a uniformly chosen unit.
func pickRandom(rng *rand.Rand, units []*Unit) *Unit {
	return units[rng.Intn(len(units))]
}
