package nn

import (
	"errors"
	"fmt"
)

// ErrStructuralMismatch is returned when two snapshots (or a snapshot and the
// expected perceptron layout) do not share the same topology.
var ErrStructuralMismatch = errors.New("structural mismatch")

// Layer names used by NeuronGene.Layer.
const (
	LayerInput  = "input"
	LayerHidden = "hidden"
	LayerOutput = "output"
)

// NeuronGene is the serialized form of one neuron. Its identity is its position
// in Snapshot.Neurons.
type NeuronGene struct {
	Layer  string  `json:"layer"`
	Bias   float64 `json:"bias"`
	Squash string  `json:"squash"`
}

// ConnectionGene is the serialized form of one weighted connection.
// From and To are positions in Snapshot.Neurons.
type ConnectionGene struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

// Snapshot is a structural copy of a Network. Crossover and mutation work on
// snapshots; they are plain values and never share backing arrays with a
// live network.
type Snapshot struct {
	Neurons     []NeuronGene     `json:"neurons"`
	Connections []ConnectionGene `json:"connections"`
}

// Clone creates a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Neurons:     make([]NeuronGene, len(s.Neurons)),
		Connections: make([]ConnectionGene, len(s.Connections)),
	}
	copy(out.Neurons, s.Neurons)
	copy(out.Connections, s.Connections)
	return out
}

// Biases returns the bias of every neuron in order.
func (s Snapshot) Biases() []float64 {
	biases := make([]float64, len(s.Neurons))
	for i, n := range s.Neurons {
		biases[i] = n.Bias
	}
	return biases
}

// Weights returns the weight of every connection in order.
func (s Snapshot) Weights() []float64 {
	weights := make([]float64, len(s.Connections))
	for i, c := range s.Connections {
		weights[i] = c.Weight
	}
	return weights
}

// LayerSize counts the neurons belonging to the given layer.
func (s Snapshot) LayerSize(layer string) int {
	n := 0
	for _, ng := range s.Neurons {
		if ng.Layer == layer {
			n++
		}
	}
	return n
}

// CheckCompatible reports whether other has the same neuron layout and the
// same connection wiring as s. Only numeric values may differ.
func (s Snapshot) CheckCompatible(other Snapshot) error {
	if len(s.Neurons) != len(other.Neurons) {
		return fmt.Errorf("%w: %d neurons vs %d", ErrStructuralMismatch, len(s.Neurons), len(other.Neurons))
	}
	if len(s.Connections) != len(other.Connections) {
		return fmt.Errorf("%w: %d connections vs %d", ErrStructuralMismatch, len(s.Connections), len(other.Connections))
	}
	for i := range s.Neurons {
		if s.Neurons[i].Layer != other.Neurons[i].Layer {
			return fmt.Errorf("%w: neuron %d is %s vs %s", ErrStructuralMismatch, i, s.Neurons[i].Layer, other.Neurons[i].Layer)
		}
	}
	for i := range s.Connections {
		a, b := s.Connections[i], other.Connections[i]
		if a.From != b.From || a.To != b.To {
			return fmt.Errorf("%w: connection %d is %d->%d vs %d->%d", ErrStructuralMismatch, i, a.From, a.To, b.From, b.To)
		}
	}
	return nil
}

// String returns a short description of the snapshot's topology.
func (s Snapshot) String() string {
	return fmt.Sprintf("Snapshot(in: %d, hidden: %d, out: %d, connections: %d)",
		s.LayerSize(LayerInput), s.LayerSize(LayerHidden), s.LayerSize(LayerOutput), len(s.Connections))
}
