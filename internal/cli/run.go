package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/born-ml/digitbench/internal/config"
	"github.com/born-ml/digitbench/internal/dataset"
	"github.com/born-ml/digitbench/internal/experiment"
	"github.com/born-ml/digitbench/internal/model"
	"github.com/born-ml/digitbench/internal/output"
	"github.com/born-ml/digitbench/internal/trainer"
)

type runFlags struct {
	dataDir   string
	epochs    int
	attempts  int
	batchSize int
	models    []string
	seed      int64
	samples   int
	synthetic bool
}

func newRunCmd(cfgFile *string) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train and evaluate every model",
		Long: `Loads MNIST once, then trains each model for the configured number of
epochs, repeating the whole training several times per model. One report line
per model is printed as soon as it is evaluated, and all lines are printed
again once every model is done.`,
		Example: `  # Run the full benchmark with defaults (uses ./digitbench.yaml if present)
  digitbench run

  # Quick run on a subset
  digitbench run --epochs 2 --attempts 1 --samples 5000 --models "Simple model,CNN simple model"

  # Smoke test without the dataset
  digitbench run --synthetic --epochs 1 --attempts 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load Config
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			// 2. Overrides
			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.DataDir = f.dataDir
			}
			if flags.Changed("epochs") {
				cfg.Epochs = f.epochs
			}
			if flags.Changed("attempts") {
				cfg.Attempts = f.attempts
			}
			if flags.Changed("batch") {
				cfg.BatchSize = f.batchSize
			}
			if flags.Changed("seed") {
				cfg.Seed = f.seed
			}
			if flags.Changed("samples") {
				cfg.MaxSamples = f.samples
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// 3. Execution
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runBenchmark(ctx, cmd, cfg, f)
		},
	}

	cmd.Flags().StringVar(&f.dataDir, "data", "", "Directory holding the MNIST IDX files (raw or .gz)")
	cmd.Flags().IntVar(&f.epochs, "epochs", 0, "Epochs per training run")
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "Training runs per model")
	cmd.Flags().IntVar(&f.batchSize, "batch", 0, "Minibatch size")
	cmd.Flags().StringSliceVar(&f.models, "models", nil, "Comma-separated list of model names to run")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for shuffling and dropout (0 = time based)")
	cmd.Flags().IntVar(&f.samples, "samples", 0, "Cap on train and test samples (0 = all)")
	cmd.Flags().BoolVar(&f.synthetic, "synthetic", false, "Use a generated dataset instead of MNIST files")
	return cmd
}

func runBenchmark(ctx context.Context, cmd *cobra.Command, cfg *config.Config, f runFlags) error {
	logger, err := output.New(cmd.OutOrStdout(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	output.SetLogger(logger)

	models, err := experiment.Select(cfg.Descriptors(), f.models)
	if err != nil {
		return err
	}

	var data *dataset.Provider
	if f.synthetic {
		data, err = dataset.Synthetic(dataset.SyntheticOptions{
			Train: cfg.MaxSamples,
			Test:  cfg.MaxSamples / 5,
			Noise: 0.3,
			Seed:  cfg.Seed,
		})
	} else {
		data, err = dataset.Load(cfg.DataDir, cfg.DatasetOptions())
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	logger.Info("dataset loaded",
		"train", data.Train.Len(),
		"validation", data.Validation.Len(),
		"test", data.Test.Len(),
		"synthetic", f.synthetic,
	)
	logger.Info("host", "host", output.DetectHost())

	opts := cfg.TrainerOptions()
	opts.Logger = logger
	attempt := int64(0)
	driver := &experiment.Driver{
		Models:   models,
		Attempts: cfg.Attempts,
		Train: func(ctx context.Context, arch model.Arch) (*trainer.Result, error) {
			run := opts
			if run.Seed != 0 {
				run.Seed += attempt
			}
			attempt++
			return trainer.Train(ctx, arch, data, run)
		},
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	}
	return driver.Run(ctx)
}
