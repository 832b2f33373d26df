package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/digitbench/internal/output"
)

// Driver evaluates a list of models one after another.
type Driver struct {
	Models   []Descriptor
	Attempts int
	Train    TrainFunc
	Out      io.Writer    // report lines
	Logger   *slog.Logger // progress (nil = output.Logger)
}

// Run evaluates every model in order, printing each result as soon as it
// is known. After the pass the stored results are printed again, after a
// blank line, in the same order.
func (d *Driver) Run(ctx context.Context) error {
	if d.Out == nil {
		return errors.New("experiment: no output writer")
	}
	logger := d.Logger
	if logger == nil {
		logger = output.Logger
	}

	for i := range d.Models {
		m := &d.Models[i]
		logger.Info("evaluating model", "model", m.Name, "arch", m.Arch.String(), "attempts", d.Attempts)

		r, err := RunAttempts(ctx, logger, m.Name, m.Arch, d.Attempts, d.Train)
		if err != nil {
			return err
		}
		m.Result = r
		if err := PrintResult(d.Out, m.Name, r); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if _, err := fmt.Fprintln(d.Out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	for _, m := range d.Models {
		if err := PrintResult(d.Out, m.Name, m.Result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
