package nn

import (
	"fmt"
	"math"
)

// SquashType defines the type for neuron squashing (activation) functions.
type SquashType func(x float64) float64

// Names of the squashing functions a snapshot may reference.
const (
	SquashLogistic = "LOGISTIC"
	SquashTanh     = "TANH"
	SquashIdentity = "IDENTITY"
	SquashHlim     = "HLIM"
	SquashReLU     = "RELU"
)

// SquashFunctions maps function names to the actual squashing functions.
// Snapshots store the name so a deserialized network resolves the same function.
var SquashFunctions = map[string]SquashType{
	SquashLogistic: Logistic,
	SquashTanh:     math.Tanh,
	SquashIdentity: Identity,
	SquashHlim:     Hlim,
	SquashReLU:     ReLU,
}

// GetSquash retrieves a squashing function by name.
func GetSquash(name string) (SquashType, error) {
	if fn, ok := SquashFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown squash function: %s", name)
}

// Logistic is the standard sigmoid 1 / (1 + e^-x).
func Logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Hlim is a hard limit step: 1 for positive input, 0 otherwise.
func Hlim(x float64) float64 {
	if x > 0 {
		return 1.0
	}
	return 0.0
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}
