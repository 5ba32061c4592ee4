package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"
)

func TestSquaredError(t *testing.T) {
	var sq SquaredError
	out := []float64{0.4316384758006792, 0.875505148495102}
	target := []float64{0, 1}

	assert.InDelta(t, 0.10090537092138006, sq.Loss(out, target), 1e-12)
	assert.InDeltaSlice(t, []float64{-0.4316384758006792, 0.124494851504898}, sq.Backward(out, target), 1e-12)
	assert.Zero(t, sq.Loss(target, target))

	grad := fd.Gradient(nil, func(o []float64) float64 { return sq.Loss(o, target) }, out, &fd.Settings{Formula: fd.Central})
	for i, g := range sq.Backward(out, target) {
		assert.InDelta(t, -grad[i], g, 1e-7)
	}
}
