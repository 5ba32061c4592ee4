package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backprop/nn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	input := `# sepal-ish
5.1, 3.5, 0

4.9,3.0,1
6.2,2.9,2
`
	instances, err := Load(strings.NewReader(input), 2)
	require.NoError(t, err)
	assert.Equal(t, []nn.Instance{
		{5.1, 3.5, 0},
		{4.9, 3.0, 1},
		{6.2, 2.9, 2},
	}, instances)
	assert.Equal(t, 3, LabelCount(instances))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"too few fields", "1,2,0\n1,0\n", "at line 2, expected 3 values, got 2"},
		{"not a number", "1,x,0\n", "column 2"},
		{"fractional label", "1,2,0.5\n", "not a class index"},
		{"negative label", "1,2,-1\n", "not a class index"},
		{"label past class limit", "1,2,0\n1,2,1e9\n", "line 2"},
		{"label overflows int", "1,2,1e19\n", "not a class index"},
		{"infinite label", "1,2,Inf\n", "not a class index"},
		{"NaN label", "1,2,NaN\n", "not a class index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), 2)
			require.ErrorIs(t, err, ErrInvalidLine)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte("0.5,1\n-0.5,0\n"), 0o644))

	instances, err := LoadFile(path, 1)
	require.NoError(t, err)
	assert.Len(t, instances, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), 1)
	assert.Error(t, err)
}

func TestInputCount(t *testing.T) {
	n, err := InputCount(strings.NewReader("# header comment\n1,2,3,4,0\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = InputCount(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLabelCount(t *testing.T) {
	tests := []struct {
		name      string
		instances []nn.Instance
		want      int
	}{
		{"empty", nil, 0},
		{"largest label wins", []nn.Instance{{1, 2}, {1, 0}}, 3},
		{"last class allowed", []nn.Instance{{1, MaxClasses - 1}}, MaxClasses},
		{"huge label skipped", []nn.Instance{{1, 1}, {1, 1e9}}, 2},
		{"overflowing label skipped", []nn.Instance{{1, 0}, {1, 1e19}}, 1},
		{"infinite label skipped", []nn.Instance{{1, 1}, {1, math.Inf(1)}}, 2},
		{"fractional label skipped", []nn.Instance{{1, 2.5}}, 0},
		{"empty instance skipped", []nn.Instance{{}, {1, 0}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelCount(tt.instances))
		})
	}
}
