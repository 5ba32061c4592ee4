// Package activation provides the nonlinearities a neuron can be built with.
package activation

import (
	"fmt"
	"math"
	"sort"
)

// Activator is a neuron nonlinearity together with its derivative.
//
// DerivativeAtOutput receives the activator's own output y = Apply(x), not the
// pre-activation sum x. This matches closed forms such as the sigmoid's
// y(1-y); a function whose derivative cannot be expressed in terms of its
// output cannot implement Activator correctly.
type Activator interface {
	Apply(x float64) float64
	DerivativeAtOutput(y float64) float64
	fmt.Stringer
}

// Lookup maps configuration names to activators.
var Lookup = map[string]Activator{
	"sigmoid": Sigmoid{},
	"tanh":    Tanh{},
	"relu":    ReLU{},
	"linear":  Linear{},
}

// Named returns the activator registered under name.
func Named(name string) (Activator, error) {
	a, ok := Lookup[name]
	if !ok {
		return nil, fmt.Errorf("unknown activation %q (have %v)", name, Names())
	}
	return a, nil
}

// Names lists the registered activator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Lookup))
	for name := range Lookup {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sigmoid is the logistic function 1/(1+e^-x).
type Sigmoid struct{}

func (Sigmoid) Apply(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func (Sigmoid) DerivativeAtOutput(y float64) float64 {
	return y * (1 - y)
}

func (Sigmoid) String() string {
	return "sigmoid"
}

// Tanh is the hyperbolic tangent; its derivative is 1-y².
type Tanh struct{}

func (Tanh) Apply(x float64) float64 {
	return math.Tanh(x)
}

func (Tanh) DerivativeAtOutput(y float64) float64 {
	return 1.0 - y*y
}

func (Tanh) String() string {
	return "tanh"
}

// leak is the negative-side slope of ReLU.
const leak = 0.0001

// ReLU is a leaky rectifier. Its output keeps the sign of its input, so the
// slope can be recovered from the output alone.
type ReLU struct{}

func (ReLU) Apply(x float64) float64 {
	if x < 0 {
		return leak * x
	}
	return x
}

func (ReLU) DerivativeAtOutput(y float64) float64 {
	if y < 0 {
		return leak
	}
	return 1
}

func (ReLU) String() string {
	return "relu"
}

// Linear is the identity.
type Linear struct{}

func (Linear) Apply(x float64) float64 { return x }

func (Linear) DerivativeAtOutput(float64) float64 { return 1 }

func (Linear) String() string { return "linear" }
