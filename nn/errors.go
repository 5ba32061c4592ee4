package nn

import "errors"

var (
	// ErrConfig reports an invalid network configuration.
	ErrConfig = errors.New("invalid network config")
	// ErrDimension reports a vector whose length does not match the layer it is fed to.
	ErrDimension = errors.New("dimension mismatch")
	// ErrInstance reports a malformed training or test instance.
	ErrInstance = errors.New("invalid instance")
	// ErrEmptyDataset is returned when accuracy is requested over no instances.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrForeignState reports a Trace or Gradient handed to a layer that did not produce it.
	ErrForeignState = errors.New("trace or gradient belongs to another layer")
	// ErrStaleState reports a Trace or Gradient computed against weights that have since changed.
	ErrStaleState = errors.New("stale trace or gradient")
)
