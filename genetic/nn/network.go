package nn

import (
	"fmt"
	"math/rand"
)

// DefaultInitRange is the half-width of the uniform range new biases and
// weights are drawn from: [-0.1, 0.1).
const DefaultInitRange = 0.1

// Layout describes the layer sizes of a perceptron.
type Layout struct {
	Inputs    int
	Hidden    int
	Outputs   int
	InitRange float64 // Half-width of the initial value range; DefaultInitRange if <= 0.
}

// DefaultLayout is the 2-6-1 controller network.
var DefaultLayout = Layout{Inputs: 2, Hidden: 6, Outputs: 1, InitRange: DefaultInitRange}

// NeuronCount returns the total number of neurons in the layout.
func (l Layout) NeuronCount() int {
	return l.Inputs + l.Hidden + l.Outputs
}

// ConnectionCount returns the number of connections of a fully connected
// layered network with this layout.
func (l Layout) ConnectionCount() int {
	if l.Hidden == 0 {
		return l.Inputs * l.Outputs
	}
	return l.Inputs*l.Hidden + l.Hidden*l.Outputs
}

// incoming is a resolved connection feeding a neuron.
type incoming struct {
	from   int
	weight float64
}

// neuralNode represents a neuron during activation, with its squash function
// pre-fetched and its incoming connections gathered.
type neuralNode struct {
	gene     NeuronGene
	squashFn SquashType
	inputs   []incoming
}

// Network is a fixed-topology feed-forward network. Neurons are stored in
// evaluation order: inputs first, then hidden, then outputs, and every
// connection points forward.
type Network struct {
	nodes       []neuralNode
	connections []ConnectionGene
	inputIdx    []int
	outputIdx   []int
}

// NewPerceptron builds a fully connected input->hidden->output network with
// biases and weights drawn uniformly from [-InitRange, InitRange).
func NewPerceptron(rng *rand.Rand, layout Layout) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if layout.Inputs <= 0 || layout.Outputs <= 0 || layout.Hidden < 0 {
		return nil, fmt.Errorf("invalid layout %d-%d-%d", layout.Inputs, layout.Hidden, layout.Outputs)
	}
	initRange := layout.InitRange
	if initRange <= 0 {
		initRange = DefaultInitRange
	}
	random := func() float64 {
		return rng.Float64()*2*initRange - initRange
	}

	snap := Snapshot{
		Neurons:     make([]NeuronGene, 0, layout.NeuronCount()),
		Connections: make([]ConnectionGene, 0, layout.ConnectionCount()),
	}
	addLayer := func(layer string, size int, squash string) []int {
		idx := make([]int, size)
		for i := 0; i < size; i++ {
			idx[i] = len(snap.Neurons)
			snap.Neurons = append(snap.Neurons, NeuronGene{Layer: layer, Bias: random(), Squash: squash})
		}
		return idx
	}
	project := func(from, to []int) {
		for _, f := range from {
			for _, t := range to {
				snap.Connections = append(snap.Connections, ConnectionGene{From: f, To: t, Weight: random()})
			}
		}
	}

	inputs := addLayer(LayerInput, layout.Inputs, SquashIdentity)
	hidden := addLayer(LayerHidden, layout.Hidden, SquashLogistic)
	outputs := addLayer(LayerOutput, layout.Outputs, SquashLogistic)
	if layout.Hidden > 0 {
		project(inputs, hidden)
		project(hidden, outputs)
	} else {
		project(inputs, outputs)
	}

	return Deserialize(snap)
}

// Deserialize builds a runnable network from a snapshot. The snapshot is
// copied; later changes to it do not affect the network.
func Deserialize(s Snapshot) (*Network, error) {
	if len(s.Neurons) == 0 {
		return nil, fmt.Errorf("%w: snapshot has no neurons", ErrStructuralMismatch)
	}

	net := &Network{
		nodes:       make([]neuralNode, len(s.Neurons)),
		connections: make([]ConnectionGene, len(s.Connections)),
	}
	copy(net.connections, s.Connections)

	// Layers must appear in evaluation order.
	rank := map[string]int{LayerInput: 0, LayerHidden: 1, LayerOutput: 2}
	prev := 0
	for i, ng := range s.Neurons {
		r, ok := rank[ng.Layer]
		if !ok {
			return nil, fmt.Errorf("%w: neuron %d has unknown layer %q", ErrStructuralMismatch, i, ng.Layer)
		}
		if r < prev {
			return nil, fmt.Errorf("%w: neuron %d (%s) out of layer order", ErrStructuralMismatch, i, ng.Layer)
		}
		prev = r

		fn, err := GetSquash(ng.Squash)
		if err != nil {
			return nil, fmt.Errorf("failed to get squash function for neuron %d: %w", i, err)
		}
		net.nodes[i] = neuralNode{gene: ng, squashFn: fn}

		switch ng.Layer {
		case LayerInput:
			net.inputIdx = append(net.inputIdx, i)
		case LayerOutput:
			net.outputIdx = append(net.outputIdx, i)
		}
	}
	if len(net.inputIdx) == 0 || len(net.outputIdx) == 0 {
		return nil, fmt.Errorf("%w: network needs at least one input and one output neuron", ErrStructuralMismatch)
	}

	for i, c := range s.Connections {
		if c.From < 0 || c.From >= len(s.Neurons) || c.To < 0 || c.To >= len(s.Neurons) {
			return nil, fmt.Errorf("%w: connection %d (%d->%d) out of range", ErrStructuralMismatch, i, c.From, c.To)
		}
		if c.From >= c.To {
			return nil, fmt.Errorf("%w: connection %d (%d->%d) is not feed-forward", ErrStructuralMismatch, i, c.From, c.To)
		}
		if s.Neurons[c.To].Layer == LayerInput {
			return nil, fmt.Errorf("%w: connection %d targets input neuron %d", ErrStructuralMismatch, i, c.To)
		}
		node := &net.nodes[c.To]
		node.inputs = append(node.inputs, incoming{from: c.From, weight: c.Weight})
	}

	return net, nil
}

// Serialize returns a deep copy of the network's parameters.
func (net *Network) Serialize() Snapshot {
	s := Snapshot{
		Neurons:     make([]NeuronGene, len(net.nodes)),
		Connections: make([]ConnectionGene, len(net.connections)),
	}
	for i, n := range net.nodes {
		s.Neurons[i] = n.gene
	}
	copy(s.Connections, net.connections)
	return s
}

// Activate computes the network's output for a given slice of input values.
// The input slice must match the number of input neurons. Activate keeps no
// state between calls.
func (net *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(net.inputIdx) {
		return nil, fmt.Errorf("mismatch between input count (%d) and network input neurons (%d)", len(inputs), len(net.inputIdx))
	}

	values := make([]float64, len(net.nodes))
	for i, idx := range net.inputIdx {
		values[idx] = inputs[i]
	}

	for i := range net.nodes {
		node := &net.nodes[i]
		if node.gene.Layer == LayerInput {
			continue
		}
		sum := node.gene.Bias
		for _, in := range node.inputs {
			sum += values[in.from] * in.weight
		}
		values[i] = node.squashFn(sum)
	}

	outputs := make([]float64, len(net.outputIdx))
	for i, idx := range net.outputIdx {
		outputs[i] = values[idx]
	}
	return outputs, nil
}

// NumInputs returns the number of input neurons.
func (net *Network) NumInputs() int { return len(net.inputIdx) }

// NumOutputs returns the number of output neurons.
func (net *Network) NumOutputs() int { return len(net.outputIdx) }

// NumNeurons returns the total number of neurons.
func (net *Network) NumNeurons() int { return len(net.nodes) }

// NumConnections returns the number of connections.
func (net *Network) NumConnections() int { return len(net.connections) }
