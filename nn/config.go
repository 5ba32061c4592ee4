package nn

import (
	"fmt"

	"backprop/activation"
)

// DefaultLearningRate is used when Config.LearningRate is zero.
const DefaultLearningRate = 0.1

// Config describes a network's topology and training parameters.
type Config struct {
	// Iterations is the number of full passes Train makes over its instances.
	Iterations int

	// InputCount is the feature count. LabelCount is the number of classes
	// and the width of the output layer.
	InputCount   int
	LabelCount   int
	HiddenLayers int

	// Neurons holds the width of each hidden layer; its length must equal HiddenLayers.
	Neurons []int

	// LearningRate is the step size of every weight update. Zero means unset
	// and selects DefaultLearningRate; a network that never moves its weights
	// is built with Iterations 0 instead.
	LearningRate float64

	// Activator defaults to activation.Sigmoid.
	Activator activation.Activator

	// Weights optionally presets starting weights, indexed
	// [layer][neuron][input], bias last. Missing or nil entries are random.
	Weights [][][]float64

	// Seed seeds the random initializer. Zero picks a time-based seed, so
	// only a non-zero seed reproduces the same starting weights.
	Seed uint64
}

// withDefaults returns a copy of c with defaults filled in. Slices the
// network derives state from are copied so later changes by the caller do not
// leak in.
func (c Config) withDefaults() Config {
	c.Neurons = append([]int(nil), c.Neurons...)
	if c.LearningRate == 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.Activator == nil {
		c.Activator = activation.Sigmoid{}
	}
	return c
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0 (got %d)", ErrConfig, c.Iterations)
	}
	if c.InputCount <= 0 {
		return fmt.Errorf("%w: input count must be > 0 (got %d)", ErrConfig, c.InputCount)
	}
	if c.LabelCount <= 0 {
		return fmt.Errorf("%w: label count must be > 0 (got %d)", ErrConfig, c.LabelCount)
	}
	if c.HiddenLayers < 0 {
		return fmt.Errorf("%w: hidden layers must be >= 0 (got %d)", ErrConfig, c.HiddenLayers)
	}
	if len(c.Neurons) != c.HiddenLayers {
		return fmt.Errorf("%w: %d hidden widths for %d hidden layers", ErrConfig, len(c.Neurons), c.HiddenLayers)
	}
	for i, w := range c.Neurons {
		if w <= 0 {
			return fmt.Errorf("%w: hidden layer %d width must be > 0 (got %d)", ErrConfig, i, w)
		}
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("%w: learning rate must be >= 0 (got %g)", ErrConfig, c.LearningRate)
	}
	if len(c.Weights) > c.HiddenLayers+1 {
		return fmt.Errorf("%w: preset weights for %d layers, network has %d", ErrConfig, len(c.Weights), c.HiddenLayers+1)
	}
	return nil
}

// widths returns the neuron count of every layer, output layer last.
func (c Config) widths() []int {
	w := make([]int, 0, len(c.Neurons)+1)
	w = append(w, c.Neurons...)
	return append(w, c.LabelCount)
}

// inputDims returns the input dimension of every layer.
func (c Config) inputDims() []int {
	d := make([]int, 0, len(c.Neurons)+1)
	d = append(d, c.InputCount)
	return append(d, c.Neurons...)
}
