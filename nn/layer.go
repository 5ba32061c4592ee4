package nn

import (
	"fmt"

	"backprop/activation"

	"gonum.org/v1/gonum/floats"
)

// Layer is a fixed set of neurons that all read the same input vector.
//
// A training step on a layer is Forward, then Backward with the returned
// Trace, then UpdateWeights with the returned Gradient. Each step's result is
// the only way into the next one, and a layer rejects results it did not
// produce or that were computed before its weights last changed.
type Layer struct {
	neurons  []*Neuron
	inputDim int

	// version counts weight updates; traces record the version they saw.
	version uint64
}

// Trace is the record of one forward pass through a layer.
type Trace struct {
	layer   *Layer
	version uint64
	inputs  []float64
	outputs []float64
}

// Inputs is the exact slice passed to Forward.
func (t *Trace) Inputs() []float64 { return t.inputs }

// Outputs holds one value per neuron, in neuron order.
func (t *Trace) Outputs() []float64 { return t.outputs }

// Gradient is the record of one backward pass through a layer.
type Gradient struct {
	trace       *Trace
	deltas      []float64
	weightDelta []float64
	applied     bool
}

// Deltas holds each neuron's error term, in neuron order.
func (g *Gradient) Deltas() []float64 { return g.deltas }

// WeightDelta is the element-wise sum over neurons of w_i·delta. It has
// InputDim+1 entries; the last comes from the bias weights.
func (g *Gradient) WeightDelta() []float64 { return g.weightDelta }

// Downstream is WeightDelta without the bias entry: the signal owed to each
// neuron of the previous layer.
func (g *Gradient) Downstream() []float64 {
	return g.weightDelta[:len(g.weightDelta)-1]
}

// NewLayer builds dim neurons with inputDim inputs each. weights may be nil,
// in which case every neuron is drawn from initial; otherwise it must hold one
// entry per neuron, and nil entries are drawn from initial.
func NewLayer(dim, inputDim int, act activation.Activator, rate float64, weights [][]float64, initial Initializer) (*Layer, error) {
	if dim <= 0 || inputDim <= 0 {
		return nil, fmt.Errorf("%w: layer of %d neurons with %d inputs", ErrDimension, dim, inputDim)
	}
	if weights != nil && len(weights) != dim {
		return nil, fmt.Errorf("%w: %d weight vectors for %d neurons", ErrDimension, len(weights), dim)
	}

	l := &Layer{
		neurons:  make([]*Neuron, dim),
		inputDim: inputDim,
	}
	for i := range l.neurons {
		var w []float64
		if weights != nil {
			w = weights[i]
		}
		if w == nil {
			if initial == nil {
				return nil, fmt.Errorf("%w: neuron %d has no weights and no initializer", ErrConfig, i)
			}
			w = initial(inputDim)
		}
		if len(w) != inputDim+1 {
			return nil, fmt.Errorf("%w: neuron %d has %d weights, want %d", ErrDimension, i, len(w), inputDim+1)
		}
		n, err := NewNeuron(w, act, rate)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		l.neurons[i] = n
	}
	return l, nil
}

// Dim is the number of neurons.
func (l *Layer) Dim() int { return len(l.neurons) }

// InputDim is the number of inputs each neuron reads.
func (l *Layer) InputDim() int { return l.inputDim }

// Neurons returns the layer's neurons in order.
func (l *Layer) Neurons() []*Neuron { return l.neurons }

// Weights returns a copy of every neuron's weights.
func (l *Layer) Weights() [][]float64 {
	w := make([][]float64, len(l.neurons))
	for i, n := range l.neurons {
		w[i] = n.Weights()
	}
	return w
}

// Forward feeds inputs to every neuron. The returned trace keeps inputs by
// reference; callers must not modify it until the step is finished.
func (l *Layer) Forward(inputs []float64) (*Trace, error) {
	if len(inputs) != l.inputDim {
		return nil, fmt.Errorf("%w: forward got %d inputs, layer expects %d", ErrDimension, len(inputs), l.inputDim)
	}
	outputs := make([]float64, len(l.neurons))
	for i, n := range l.neurons {
		outputs[i] = n.ComputeOutput(inputs)
	}
	return &Trace{
		layer:   l,
		version: l.version,
		inputs:  inputs,
		outputs: outputs,
	}, nil
}

// Backward computes each neuron's delta from its entry in downstream and
// sums the neurons' weight deltas for the previous layer.
func (l *Layer) Backward(t *Trace, downstream []float64) (*Gradient, error) {
	if t == nil || t.layer != l {
		return nil, ErrForeignState
	}
	if t.version != l.version {
		return nil, fmt.Errorf("%w: trace predates %d weight update(s)", ErrStaleState, l.version-t.version)
	}
	if len(downstream) != len(l.neurons) {
		return nil, fmt.Errorf("%w: backward got %d downstream values for %d neurons", ErrDimension, len(downstream), len(l.neurons))
	}

	g := &Gradient{
		trace:       t,
		deltas:      make([]float64, len(l.neurons)),
		weightDelta: make([]float64, l.inputDim+1),
	}
	for i, n := range l.neurons {
		g.deltas[i] = n.ComputeDelta(t.outputs[i], downstream[i])
		floats.Add(g.weightDelta, n.WeightDelta(g.deltas[i]))
	}
	return g, nil
}

// UpdateWeights moves every neuron along its delta, using the inputs recorded
// by the forward pass the gradient was computed from. A gradient can be
// applied once.
func (l *Layer) UpdateWeights(g *Gradient) error {
	if g == nil || g.trace == nil || g.trace.layer != l {
		return ErrForeignState
	}
	if g.applied || g.trace.version != l.version {
		return ErrStaleState
	}
	for i, n := range l.neurons {
		n.UpdateWeight(g.trace.inputs, g.deltas[i])
	}
	l.version++
	g.applied = true
	return nil
}
