// Package dataset loads and prepares labelled instances for training.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"backprop/nn"
)

// ErrInvalidLine is matched by every row-level parse failure.
var ErrInvalidLine = errors.New("invalid line")

// MaxClasses bounds the label values Load accepts. The label count sizes the
// output layer, so a stray huge label must not reach it.
const MaxClasses = 1 << 16

type errInvalidLine struct {
	lineNum  int
	fields   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.fields)
}

func (e errInvalidLine) Is(target error) bool {
	return target == ErrInvalidLine
}

// Load reads header-less CSV rows of inputCount features followed by an
// integer class label. Blank lines and lines starting with '#' are skipped.
func Load(r io.Reader, inputCount int) ([]nn.Instance, error) {
	if inputCount <= 0 {
		return nil, fmt.Errorf("input count must be > 0 (got %d)", inputCount)
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var instances []nn.Instance
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return instances, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) != inputCount+1 {
			return instances, errInvalidLine{
				lineNum:  line,
				fields:   len(record),
				expected: inputCount + 1,
			}
		}

		inst := make(nn.Instance, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return instances, fmt.Errorf("line %d, column %d: %w: %w", line, i+1, ErrInvalidLine, err)
			}
			inst[i] = v
		}
		label := inst[inputCount]
		if !isClass(label) {
			return instances, fmt.Errorf("line %d: %w: label %v is not a class index below %d", line, ErrInvalidLine, label, MaxClasses)
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// LoadFile opens path and reads it with Load.
func LoadFile(path string, inputCount int) ([]nn.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	instances, err := Load(f, inputCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return instances, nil
}

// InputCount returns the feature count of the first data row of r, or 0 if
// there is none. It is meant for sizing a network from an unknown file.
func InputCount(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	record, err := cr.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading csv: %w", err)
	}
	return len(record) - 1, nil
}

// LabelCount returns one more than the largest label in instances. Labels
// that are not whole numbers in [0, MaxClasses) are skipped; training rejects
// those instances on its own.
func LabelCount(instances []nn.Instance) int {
	var n int
	for _, inst := range instances {
		if len(inst) == 0 {
			continue
		}
		v := inst[len(inst)-1]
		if !isClass(v) {
			continue
		}
		if l := int(v) + 1; l > n {
			n = l
		}
	}
	return n
}

// isClass reports whether v is a whole number in [0, MaxClasses). NaN and
// infinities fail.
func isClass(v float64) bool {
	return v >= 0 && v < MaxClasses && v == math.Trunc(v)
}
