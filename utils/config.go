package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"backprop/activation"
	"backprop/nn"

	"gopkg.in/yaml.v3"
)

// Config holds a training run's configuration as read from YAML.
//
// Seed seeds weight init and synthetic data. For weight init a seed of 0,
// written or omitted, means a new time-based seed on every run, so only a
// non-zero seed reproduces a trained network.
type Config struct {
	Name         string        `yaml:"name"`
	Data         string        `yaml:"data"`
	TestData     string        `yaml:"test_data"`
	Iteration    int           `yaml:"iteration"`
	InputCount   int           `yaml:"input_count"`
	LabelCount   int           `yaml:"label_count"`
	HiddenLayers int           `yaml:"hidden_layers"`
	Neurons      []int         `yaml:"neurons"`
	LearningRate float64       `yaml:"learning_rate"`
	Activation   string        `yaml:"activation"`
	Seed         uint64        `yaml:"seed"`
	Normalize    bool          `yaml:"normalize"`
	Synthetic    int           `yaml:"synthetic"`
	Weights      [][][]float64 `yaml:"weights"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone.
type Overrides struct {
	Data         string
	TestData     string
	Iteration    int
	Neurons      []int
	LearningRate float64
	Activation   string
	Seed         uint64
	Synthetic    int
}

// Load reads a Config from a YAML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override. Overriding the
// hidden widths also resets the hidden layer count to match.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Data != "" {
		c.Data = o.Data
	}
	if o.TestData != "" {
		c.TestData = o.TestData
	}
	if o.Iteration > 0 {
		c.Iteration = o.Iteration
	}
	if o.Neurons != nil {
		c.Neurons = append([]int(nil), o.Neurons...)
		c.HiddenLayers = len(o.Neurons)
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Activation != "" {
		c.Activation = o.Activation
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Synthetic > 0 {
		c.Synthetic = o.Synthetic
	}
}

// Validate verifies the config is runnable. Topology is checked again by
// nn.New once the input and label counts are known.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data == "" && c.Synthetic <= 0 {
		return errors.New("either data or synthetic must be set")
	}
	if c.Iteration < 0 {
		return fmt.Errorf("iteration must be >= 0 (got %d)", c.Iteration)
	}
	if c.InputCount < 0 || c.LabelCount < 0 {
		return fmt.Errorf("input_count and label_count must be >= 0 (got %d, %d)", c.InputCount, c.LabelCount)
	}
	if len(c.Neurons) != c.HiddenLayers {
		return fmt.Errorf("neurons lists %d widths for %d hidden layers", len(c.Neurons), c.HiddenLayers)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("learning_rate must be >= 0 (got %g)", c.LearningRate)
	}
	if c.Activation != "" {
		if _, err := activation.Named(c.Activation); err != nil {
			return err
		}
	}
	return nil
}

// Network converts c into a network configuration. Counts set in the file
// take precedence over the ones detected from data.
func (c *Config) Network(inputCount, labelCount int) (nn.Config, error) {
	if c.InputCount > 0 {
		inputCount = c.InputCount
	}
	if c.LabelCount > 0 {
		labelCount = c.LabelCount
	}
	nc := nn.Config{
		Iterations:   c.Iteration,
		InputCount:   inputCount,
		LabelCount:   labelCount,
		HiddenLayers: c.HiddenLayers,
		Neurons:      append([]int(nil), c.Neurons...),
		LearningRate: c.LearningRate,
		Weights:      c.Weights,
		Seed:         c.Seed,
	}
	if c.Activation != "" {
		act, err := activation.Named(c.Activation)
		if err != nil {
			return nn.Config{}, err
		}
		nc.Activator = act
	}
	return nc, nc.Validate()
}

// ParseArchitecture parses a comma or space separated list of hidden layer
// widths such as "10,10" or "10 10". An empty string means no hidden layers.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || r == ' '
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("layer width %q: %w", s, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("layer width must be > 0 (got %d)", n)
		}
		arch[i] = n
	}
	return arch, nil
}
