// train: trains a backpropagation network on a CSV dataset and reports its
// accuracy.
//
// Usage:
//
//	train --config=configs/iris.yaml
//	train --data=iris.csv --hidden=4,4 --iterations=2000 --lr=0.1
//	train --synthetic=200 --hidden=3
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"backprop/dataset"
	"backprop/nn"
	"backprop/utils"

	"github.com/google/uuid"
)

var (
	configPath   = flag.String("config", "", "Path to YAML run config")
	dataPath     = flag.String("data", "", "Training CSV (features..., label)")
	testPath     = flag.String("test-data", "", "Test CSV; defaults to the training data")
	iterations   = flag.Int("iterations", 0, "Passes over the training data")
	hidden       = flag.String("hidden", "", "Hidden layer widths, e.g. 10,10")
	learningRate = flag.Float64("lr", 0, "Learning rate (default 0.1)")
	act          = flag.String("activation", "", "Activation: linear, relu, sigmoid, tanh")
	seed         = flag.Uint64("seed", 0, "Seed for weight init and synthetic data")
	synthetic    = flag.Int("synthetic", 0, "Train on N generated, linearly separable instances")
	normalize    = flag.Bool("normalize", false, "Z-score features using training statistics")
	printWeights = flag.Bool("print-weights", false, "Print all weights after training")
	verbose      = flag.Bool("verbose", false, "Debug logging and timing breakdown")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := &utils.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = utils.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	var widths []int
	if *hidden != "" {
		var err error
		if widths, err = utils.ParseArchitecture(*hidden); err != nil {
			fmt.Fprintf(os.Stderr, "invalid --hidden: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.ApplyOverrides(utils.Overrides{
		Data:         *dataPath,
		TestData:     *testPath,
		Iteration:    *iterations,
		Neurons:      widths,
		LearningRate: *learningRate,
		Activation:   *act,
		Seed:         *seed,
		Synthetic:    *synthetic,
	})
	if *normalize {
		cfg.Normalize = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger = logger.With("run", uuid.NewString())
	if cfg.Name != "" {
		logger = logger.With("name", cfg.Name)
	}

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	var train, test []nn.Instance
	err := utils.Time(&stats.DataLoadingTime, func() error {
		var err error
		train, test, err = loadData(cfg)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading data: %v\n", err)
		os.Exit(1)
	}
	logger.Info("data loaded", "train", len(train), "test", len(test))

	labels := dataset.LabelCount(train)
	if n := dataset.LabelCount(test); n > labels {
		labels = n
	}
	netCfg, err := cfg.Network(len(train[0].Features()), labels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid network: %v\n", err)
		os.Exit(1)
	}

	var net *nn.Network
	err = utils.Time(&stats.ModelInitTime, func() error {
		var err error
		net, err = nn.New(netCfg, nn.WithLogger(logger))
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building network: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Training %d-layer network for %d iterations on %d instances...\n",
		len(net.Layers()), net.Iterations(), len(train))
	if err := utils.Time(&stats.TrainTime, func() error { return net.Train(train) }); err != nil {
		fmt.Fprintf(os.Stderr, "training failed: %v\n", err)
		os.Exit(1)
	}

	var accuracy float64
	err = utils.Time(&stats.TestTime, func() error {
		var err error
		accuracy, err = net.Test(test)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "testing failed: %v\n", err)
		os.Exit(1)
	}
	stats.TotalTime = time.Since(totalStart)

	logger.Info("run complete", "accuracy", accuracy, "elapsed", stats.TotalTime)
	fmt.Printf("Accuracy %.2f%%\n", accuracy*100)
	if *printWeights {
		fmt.Print(net)
	}
	utils.PrintTimingStats(stats, net.Iterations()*len(train))
}

// loadData returns the training set and the set to test against, normalized
// with the training statistics when the config asks for it.
func loadData(cfg *utils.Config) (train, test []nn.Instance, err error) {
	if cfg.Synthetic > 0 {
		features := cfg.InputCount
		if features == 0 {
			features = 2
		}
		train = dataset.Separable(cfg.Synthetic, features, cfg.Seed)
	} else {
		if train, err = loadCSV(cfg.Data, cfg.InputCount); err != nil {
			return nil, nil, err
		}
	}
	if len(train) == 0 {
		return nil, nil, errors.New("no training instances")
	}

	test = train
	if cfg.TestData != "" {
		if test, err = loadCSV(cfg.TestData, len(train[0].Features())); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Normalize {
		s, err := dataset.Describe(train)
		if err != nil {
			return nil, nil, err
		}
		train, test = s.Normalize(train), s.Normalize(test)
	}
	return train, test, nil
}

// loadCSV reads path, detecting the feature count from the first row when
// inputCount is zero.
func loadCSV(path string, inputCount int) ([]nn.Instance, error) {
	if inputCount == 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		inputCount, err = dataset.InputCount(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if inputCount <= 0 {
			return nil, fmt.Errorf("%s: no data rows", path)
		}
	}
	return dataset.LoadFile(path, inputCount)
}
