package nn

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"backprop/activation"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is a chain of fully connected layers trained one instance at a time.
//
// A Network is not safe for concurrent use: every training step mutates the
// weights in place.
type Network struct {
	layers     []*Layer
	iterations int
	inputCount int
	labelCount int
	rate       float64
	act        activation.Activator
	logger     *slog.Logger
}

// Option customizes a Network at construction.
type Option func(*Network)

// WithLogger sets the logger training progress is reported to.
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.logger = l
		}
	}
}

// New builds a network from cfg. The hidden widths are copied and checked
// against HiddenLayers before the output width is appended, and cfg itself is
// left untouched.
func New(cfg Config, opts ...Option) (*Network, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	initial := UniformInit(rand.NewSource(seed))

	net := &Network{
		layers:     make([]*Layer, cfg.HiddenLayers+1),
		iterations: cfg.Iterations,
		inputCount: cfg.InputCount,
		labelCount: cfg.LabelCount,
		rate:       cfg.LearningRate,
		act:        cfg.Activator,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(net)
	}

	widths, inputs := cfg.widths(), cfg.inputDims()
	for i := range net.layers {
		var w [][]float64
		if i < len(cfg.Weights) {
			w = cfg.Weights[i]
		}
		l, err := NewLayer(widths[i], inputs[i], cfg.Activator, cfg.LearningRate, w, initial)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		net.layers[i] = l
	}

	net.logger.Debug("network built",
		"inputs", cfg.InputCount,
		"widths", widths,
		"activation", cfg.Activator.String(),
		"learning_rate", cfg.LearningRate,
		"iterations", cfg.Iterations,
	)
	return net, nil
}

// Layers returns the layers from input to output.
func (n *Network) Layers() []*Layer { return n.layers }

// Iterations is the number of passes Train makes.
func (n *Network) Iterations() int { return n.iterations }

// LearningRate is the step size every neuron updates with.
func (n *Network) LearningRate() float64 { return n.rate }

// InputCount is the expected feature length.
func (n *Network) InputCount() int { return n.inputCount }

// LabelCount is the number of classes.
func (n *Network) LabelCount() int { return n.labelCount }

// Weights returns a deep copy of all weights, indexed [layer][neuron][input].
func (n *Network) Weights() [][][]float64 {
	w := make([][][]float64, len(n.layers))
	for i, l := range n.layers {
		w[i] = l.Weights()
	}
	return w
}

// forward runs features through every layer and returns each layer's trace.
func (n *Network) forward(features []float64) ([]*Trace, error) {
	traces := make([]*Trace, len(n.layers))
	inputs := features
	for i, l := range n.layers {
		t, err := l.Forward(inputs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		traces[i] = t
		inputs = t.Outputs()
	}
	return traces, nil
}

// Predict returns the output layer's activations for features.
func (n *Network) Predict(features []float64) ([]float64, error) {
	traces, err := n.forward(features)
	if err != nil {
		return nil, err
	}
	return traces[len(traces)-1].Outputs(), nil
}

// Classify returns the index of the largest output. Ties go to the lowest index.
func (n *Network) Classify(features []float64) (int, error) {
	out, err := n.Predict(features)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(out), nil
}

func (n *Network) split(inst Instance) ([]float64, int, error) {
	if len(inst) != n.inputCount+1 {
		return nil, 0, fmt.Errorf("%w: %d values, want %d features and a label", ErrInstance, len(inst), n.inputCount)
	}
	label, err := inst.Label(n.labelCount)
	if err != nil {
		return nil, 0, err
	}
	return inst.Features(), label, nil
}

// TrainInstance runs one forward pass, backpropagates target-output from the
// output layer to the first, then updates every layer. It returns the squared
// error ½Σ(target-output)² measured before the update.
func (n *Network) TrainInstance(inst Instance) (float64, error) {
	features, label, err := n.split(inst)
	if err != nil {
		return 0, err
	}

	traces, err := n.forward(features)
	if err != nil {
		return 0, err
	}
	outputs := traces[len(traces)-1].Outputs()

	target := OneHot(label, n.labelCount)
	var sq SquaredError
	loss := sq.Loss(outputs, target)
	downstream := sq.Backward(outputs, target)

	grads := make([]*Gradient, len(n.layers))
	for i := len(n.layers) - 1; i >= 0; i-- {
		g, err := n.layers[i].Backward(traces[i], downstream)
		if err != nil {
			return 0, fmt.Errorf("layer %d: %w", i, err)
		}
		grads[i] = g
		downstream = g.Downstream()
	}

	for i, l := range n.layers {
		if err := l.UpdateWeights(grads[i]); err != nil {
			return 0, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return loss, nil
}

// Train makes Iterations passes over instances in order, training on each.
func (n *Network) Train(instances []Instance) error {
	for it := 1; it <= n.iterations; it++ {
		start := time.Now()
		var total float64
		for i, inst := range instances {
			loss, err := n.TrainInstance(inst)
			if err != nil {
				return fmt.Errorf("iteration %d, instance %d: %w", it, i, err)
			}
			total += loss
		}

		var mse float64
		if len(instances) > 0 {
			mse = total / float64(len(instances))
		}
		n.logger.Info("pass complete",
			"iteration", it,
			"of", n.iterations,
			"mse", mse,
			"elapsed", time.Since(start),
		)
	}
	return nil
}

// TestInstance reports whether the predicted class matches the label.
func (n *Network) TestInstance(inst Instance) (bool, error) {
	features, label, err := n.split(inst)
	if err != nil {
		return false, err
	}
	class, err := n.Classify(features)
	if err != nil {
		return false, err
	}
	return class == label, nil
}

// Test returns the fraction of instances classified correctly.
func (n *Network) Test(instances []Instance) (float64, error) {
	if len(instances) == 0 {
		return 0, ErrEmptyDataset
	}
	var correct int
	for i, inst := range instances {
		ok, err := n.TestInstance(inst)
		if err != nil {
			return 0, fmt.Errorf("instance %d: %w", i, err)
		}
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(instances)), nil
}

func (n *Network) String() string {
	var b strings.Builder
	for i, l := range n.layers {
		fmt.Fprintf(&b, "Layer %d (%s, %d inputs)\n", i, n.act, l.InputDim())
		data := make([]float64, 0, l.Dim()*(l.InputDim()+1))
		for _, w := range l.Weights() {
			data = append(data, w...)
		}
		w := mat.NewDense(l.Dim(), l.InputDim()+1, data)
		fmt.Fprintf(&b, "\t%v\n", mat.Formatted(w, mat.Prefix("\t"), mat.Squeeze()))
	}
	return b.String()
}
