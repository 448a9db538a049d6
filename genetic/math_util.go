package genetic

import (
	"math"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// Normalize clamps value into [-max, max] and scales it to [-1, 1].
func Normalize(value, max float64) float64 {
	return clamp(value, -max, max) / max
}

// --- Statistical Functions ---

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MaxFloat calculates the maximum value in a slice of float64 values.
// Returns negative infinity if the slice is empty.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	maxVal := values[0]
	for i := 1; i < len(values); i++ {
		if values[i] > maxVal {
			maxVal = values[i]
		}
	}
	return maxVal
}

// MinFloat calculates the minimum value in a slice of float64 values.
// Returns positive infinity if the slice is empty.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	minVal := values[0]
	for i := 1; i < len(values); i++ {
		if values[i] < minVal {
			minVal = values[i]
		}
	}
	return minVal
}
