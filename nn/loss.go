package nn

import "gonum.org/v1/gonum/floats"

// SquaredError is the loss minimized by training: ½Σ(target-output)².
type SquaredError struct{}

// Loss returns ½Σ(target-output)².
func (SquaredError) Loss(output, target []float64) float64 {
	d := floats.SubTo(make([]float64, len(target)), target, output)
	return 0.5 * floats.Dot(d, d)
}

// Backward returns the error signal target-output fed into the output layer.
// It is the negated gradient of Loss with respect to output.
func (SquaredError) Backward(output, target []float64) []float64 {
	return floats.SubTo(make([]float64, len(target)), target, output)
}
