package nn

import (
	"fmt"
	"math"

	"backprop/activation"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Neuron is a single unit: a weighted sum of its inputs plus a bias, passed
// through an activator. The last weight is the bias, applied to an implicit
// input of 1.
//
// Neuron holds no per-instance state. Every method that depends on a previous
// step takes that step's result as an argument.
type Neuron struct {
	weights []float64
	act     activation.Activator
	rate    float64
}

// NewNeuron builds a neuron from its weights (inputs first, bias last). The
// slice is copied.
func NewNeuron(weights []float64, act activation.Activator, rate float64) (*Neuron, error) {
	if len(weights) < 2 {
		return nil, fmt.Errorf("%w: neuron needs at least one input weight and a bias, got %d weights", ErrDimension, len(weights))
	}
	if act == nil {
		return nil, fmt.Errorf("%w: nil activator", ErrConfig)
	}
	return &Neuron{
		weights: append([]float64(nil), weights...),
		act:     act,
		rate:    rate,
	}, nil
}

// InputDim is the number of inputs the neuron expects, excluding the bias.
func (n *Neuron) InputDim() int {
	return len(n.weights) - 1
}

// Weights returns a copy of the weight vector, bias last.
func (n *Neuron) Weights() []float64 {
	return append([]float64(nil), n.weights...)
}

// ComputeOutput returns act(bias + Σ w_i·x_i). It panics if len(inputs)
// differs from InputDim.
func (n *Neuron) ComputeOutput(inputs []float64) float64 {
	d := n.InputDim()
	z := floats.Dot(n.weights[:d], inputs) + n.weights[d]
	return n.act.Apply(z)
}

// ComputeDelta returns the neuron's error term for the given output and
// downstream signal. For an output neuron downstream is target-output; for a
// hidden neuron it is the sum over the next layer of weight·delta.
func (n *Neuron) ComputeDelta(output, downstream float64) float64 {
	return downstream * n.act.DerivativeAtOutput(output)
}

// WeightDelta returns w_i·delta for every weight, bias included.
func (n *Neuron) WeightDelta(delta float64) []float64 {
	return floats.ScaleTo(make([]float64, len(n.weights)), delta, n.weights)
}

// UpdateWeight applies w_i += rate·delta·x_i, with x = 1 for the bias. inputs
// must be the vector that produced delta.
func (n *Neuron) UpdateWeight(inputs []float64, delta float64) {
	d := n.InputDim()
	step := n.rate * delta
	floats.AddScaled(n.weights[:d], step, inputs)
	n.weights[d] += step
}

func (n *Neuron) String() string {
	return fmt.Sprint(n.weights)
}

// Initializer produces starting weights for a neuron with inputDim inputs;
// the returned slice has inputDim+1 entries.
type Initializer func(inputDim int) []float64

// UniformInit draws every weight from U(-1/√inputDim, 1/√inputDim).
func UniformInit(src rand.Source) Initializer {
	return func(inputDim int) []float64 {
		limit := 1 / math.Sqrt(float64(inputDim))
		dist := distuv.Uniform{
			Min: -limit,
			Max: limit,
			Src: src,
		}
		w := make([]float64, inputDim+1)
		for i := range w {
			w[i] = dist.Rand()
		}
		return w
	}
}
