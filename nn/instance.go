package nn

import (
	"fmt"
	"math"
)

// Instance is a flat numeric row: features first, integer class label last.
type Instance []float64

// Features returns every element but the last. It shares storage with in.
func (in Instance) Features() []float64 {
	if len(in) == 0 {
		return nil
	}
	return in[:len(in)-1]
}

// Label returns the class index stored in the last element. It fails if that
// element is not a whole number in [0, labelCount).
func (in Instance) Label(labelCount int) (int, error) {
	if len(in) == 0 {
		return 0, fmt.Errorf("%w: empty instance", ErrInstance)
	}
	v := in[len(in)-1]
	if v != math.Trunc(v) || v < 0 || v >= float64(labelCount) {
		return 0, fmt.Errorf("%w: label %v is not a class in [0, %d)", ErrInstance, v, labelCount)
	}
	return int(v), nil
}

// OneHot returns a vector of length count with a 1 at label and 0 elsewhere.
func OneHot(label, count int) []float64 {
	v := make([]float64, count)
	v[label] = 1
	return v
}
