package dataset

import (
	"backprop/nn"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Separable generates n instances of two classes that differ only in the
// sign of their first feature. The remaining features are noise. The result
// is deterministic for a given seed. features below 1 is raised to 1.
func Separable(n, features int, seed uint64) []nn.Instance {
	if features < 1 {
		features = 1
	}
	src := rand.NewSource(seed)
	noise := distuv.Normal{Mu: 0, Sigma: 0.3, Src: src}
	offset := distuv.Uniform{Min: 0.5, Max: 1.5, Src: src}

	out := make([]nn.Instance, n)
	for i := range out {
		inst := make(nn.Instance, features+1)
		label := i % 2
		for j := 1; j < features; j++ {
			inst[j] = noise.Rand()
		}
		inst[0] = offset.Rand()
		if label == 1 {
			inst[0] = -inst[0]
		}
		inst[features] = float64(label)
		out[i] = inst
	}
	return out
}
