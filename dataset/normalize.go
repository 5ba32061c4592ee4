package dataset

import (
	"errors"

	"backprop/nn"

	"gonum.org/v1/gonum/stat"
)

// Stats holds per-feature mean and standard deviation.
type Stats struct {
	Mean   []float64
	StdDev []float64
}

// Describe computes feature statistics over instances. Every instance must
// have the same length.
func Describe(instances []nn.Instance) (Stats, error) {
	if len(instances) == 0 {
		return Stats{}, errors.New("no instances to describe")
	}
	features := len(instances[0].Features())
	s := Stats{
		Mean:   make([]float64, features),
		StdDev: make([]float64, features),
	}
	column := make([]float64, len(instances))
	for j := 0; j < features; j++ {
		for i, inst := range instances {
			if len(inst) != features+1 {
				return Stats{}, errInvalidLine{lineNum: i + 1, fields: len(inst), expected: features + 1}
			}
			column[i] = inst[j]
		}
		s.Mean[j], s.StdDev[j] = stat.PopMeanStdDev(column, nil)
	}
	return s, nil
}

// Normalize returns z-scored copies of instances. Labels are kept as they
// are, and a feature with zero spread is only centred.
func (s Stats) Normalize(instances []nn.Instance) []nn.Instance {
	out := make([]nn.Instance, len(instances))
	for i, inst := range instances {
		norm := make(nn.Instance, len(inst))
		copy(norm, inst)
		for j := range s.Mean {
			norm[j] -= s.Mean[j]
			if s.StdDev[j] != 0 {
				norm[j] /= s.StdDev[j]
			}
		}
		out[i] = norm
	}
	return out
}
