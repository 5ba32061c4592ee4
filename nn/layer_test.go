package nn

import (
	"testing"

	"backprop/activation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func linearLayer(t *testing.T) *Layer {
	t.Helper()
	l, err := NewLayer(2, 3, activation.Linear{}, 0.1, [][]float64{
		{1, 2, 3, 0.5},
		{-1, 0, 1, -0.5},
	}, nil)
	require.NoError(t, err)
	return l
}

func TestLayerForward(t *testing.T) {
	l := linearLayer(t)
	in := []float64{1, 1, 1}
	tr, err := l.Forward(in)
	require.NoError(t, err)

	assert.Equal(t, []float64{6.5, -0.5}, tr.Outputs())
	assert.Len(t, tr.Outputs(), l.Dim())
	assert.Same(t, &in[0], &tr.Inputs()[0], "trace keeps the caller's slice")
}

func TestLayerForwardDimension(t *testing.T) {
	l := linearLayer(t)
	_, err := l.Forward([]float64{1, 2})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestLayerBackward(t *testing.T) {
	l := linearLayer(t)
	tr, err := l.Forward([]float64{1, 1, 1})
	require.NoError(t, err)

	g, err := l.Backward(tr, []float64{0.5, 2})
	require.NoError(t, err)

	// Linear activation: delta equals downstream.
	assert.Equal(t, []float64{0.5, 2}, g.Deltas())
	// 0.5*{1,2,3,0.5} + 2*{-1,0,1,-0.5}
	assert.InDeltaSlice(t, []float64{-1.5, 1, 3.5, -0.75}, g.WeightDelta(), 1e-15)
	assert.Len(t, g.WeightDelta(), l.InputDim()+1)
	assert.InDeltaSlice(t, []float64{-1.5, 1, 3.5}, g.Downstream(), 1e-15)
	assert.Len(t, g.Downstream(), l.InputDim())
}

func TestLayerBackwardDimension(t *testing.T) {
	l := linearLayer(t)
	tr, err := l.Forward([]float64{1, 1, 1})
	require.NoError(t, err)
	_, err = l.Backward(tr, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestLayerUpdateWeights(t *testing.T) {
	l := linearLayer(t)
	tr, err := l.Forward([]float64{1, 0, 2})
	require.NoError(t, err)
	g, err := l.Backward(tr, []float64{1, -1})
	require.NoError(t, err)
	require.NoError(t, l.UpdateWeights(g))

	assert.InDeltaSlice(t, []float64{1.1, 2, 3.2, 0.6}, l.Weights()[0], 1e-15)
	assert.InDeltaSlice(t, []float64{-1.1, 0, 0.8, -0.6}, l.Weights()[1], 1e-15)
}

func TestLayerRejectsOutOfOrderState(t *testing.T) {
	l := linearLayer(t)
	other := linearLayer(t)

	tr, err := l.Forward([]float64{1, 0, 2})
	require.NoError(t, err)
	foreign, err := other.Forward([]float64{1, 0, 2})
	require.NoError(t, err)

	_, err = l.Backward(nil, []float64{1, 1})
	assert.ErrorIs(t, err, ErrForeignState)
	_, err = l.Backward(foreign, []float64{1, 1})
	assert.ErrorIs(t, err, ErrForeignState)

	g, err := l.Backward(tr, []float64{1, 1})
	require.NoError(t, err)
	assert.ErrorIs(t, other.UpdateWeights(g), ErrForeignState)
	assert.ErrorIs(t, l.UpdateWeights(nil), ErrForeignState)

	require.NoError(t, l.UpdateWeights(g))
	assert.ErrorIs(t, l.UpdateWeights(g), ErrStaleState, "a gradient applies once")

	_, err = l.Backward(tr, []float64{1, 1})
	assert.ErrorIs(t, err, ErrStaleState, "trace predates the update")
}

func TestLayerStaleGradientAfterOtherUpdate(t *testing.T) {
	l := linearLayer(t)
	first, err := l.Forward([]float64{1, 0, 0})
	require.NoError(t, err)
	second, err := l.Forward([]float64{0, 1, 0})
	require.NoError(t, err)

	g1, err := l.Backward(first, []float64{1, 1})
	require.NoError(t, err)
	g2, err := l.Backward(second, []float64{1, 1})
	require.NoError(t, err)

	require.NoError(t, l.UpdateWeights(g2))
	assert.ErrorIs(t, l.UpdateWeights(g1), ErrStaleState)
}

func TestNewLayerWeights(t *testing.T) {
	t.Run("count mismatch", func(t *testing.T) {
		_, err := NewLayer(2, 3, activation.Sigmoid{}, 0.1, [][]float64{{1, 2, 3, 4}}, nil)
		assert.ErrorIs(t, err, ErrDimension)
	})
	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewLayer(1, 3, activation.Sigmoid{}, 0.1, [][]float64{{1, 2, 3}}, nil)
		assert.ErrorIs(t, err, ErrDimension)
	})
	t.Run("nil entries are random", func(t *testing.T) {
		l, err := NewLayer(2, 3, activation.Sigmoid{}, 0.1, [][]float64{{1, 2, 3, 4}, nil}, UniformInit(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4}, l.Weights()[0])
		assert.Len(t, l.Weights()[1], 4)
	})
	t.Run("no initializer", func(t *testing.T) {
		_, err := NewLayer(2, 3, activation.Sigmoid{}, 0.1, nil, nil)
		assert.ErrorIs(t, err, ErrConfig)
	})
	t.Run("empty layer", func(t *testing.T) {
		_, err := NewLayer(0, 3, activation.Sigmoid{}, 0.1, nil, UniformInit(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrDimension)
	})
}
