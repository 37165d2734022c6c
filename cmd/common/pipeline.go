// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/budget-csv/internal/aggregator"
	"fjacquet/budget-csv/internal/container"
	"fjacquet/budget-csv/internal/fileutils"
	"fjacquet/budget-csv/internal/ledger"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/parsererror"
	"fjacquet/budget-csv/internal/validation"
)

// ErrInvalidFormat is returned when the input file fails format validation.
var ErrInvalidFormat = errors.New("invalid file format")

// Options carries the per-invocation settings of a command.
type Options struct {
	Input  string
	Output string // empty writes to Stdout
	Format string
	Year   int
	// Explain renders the projection breakdown instead of the bare budgets.
	Explain bool
	// ByCategory splits the monthly summary by category.
	ByCategory bool
	Workers    int
	Stdout     io.Writer
}

func (o Options) validate() error {
	if err := validation.IsValidInputFile(o.Input); err != nil {
		return err
	}
	if err := validation.IsValidOutputFormat(o.Format); err != nil {
		return err
	}
	return validation.IsValidYear(o.Year)
}

// RunProjection loads the ledger, aggregates it per category and month and
// writes one projected budget per category.
func RunProjection(ctx context.Context, c *container.Container, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	log := c.GetLogger().WithFields(logging.Field{Key: logging.FieldOperation, Value: "project"})

	result, err := load(c, opts)
	if err != nil {
		return err
	}

	mode := aggregator.ModeFor(result.IdentityAvailable)
	log.Info("Aggregating ledger",
		logging.Field{Key: logging.FieldMode, Value: mode.String()},
		logging.Field{Key: logging.FieldColumn, Value: result.IdentityColumn})

	series, err := c.GetAggregator().Aggregate(result.Records, mode)
	if err != nil {
		return fmt.Errorf("error aggregating ledger: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = c.GetConfig().EffectiveWorkers()
	}

	return withOutput(opts, log, func(w io.Writer) error {
		proj := c.GetProjector()
		gen := c.GetReportGenerator()
		if opts.Explain {
			explanations, err := proj.ExplainAll(ctx, series, workers)
			if err != nil {
				return fmt.Errorf("error projecting budgets: %w", err)
			}
			return gen.WriteBreakdowns(w, explanations, opts.Format)
		}

		projections, err := proj.ProjectAll(ctx, series, workers)
		if err != nil {
			return fmt.Errorf("error projecting budgets: %w", err)
		}
		return gen.WriteProjections(w, projections, opts.Format)
	})
}

// RunSummary writes monthly spend totals, optionally split by category.
func RunSummary(c *container.Container, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	log := c.GetLogger().WithFields(logging.Field{Key: logging.FieldOperation, Value: "summary"})

	result, err := load(c, opts)
	if err != nil {
		return err
	}

	agg := c.GetAggregator()
	gen := c.GetReportGenerator()
	return withOutput(opts, log, func(w io.Writer) error {
		if opts.ByCategory {
			return gen.WriteCategoryMonthly(w, agg.CategoryMonthly(result.Records), opts.Format)
		}
		return gen.WriteMonthlySummary(w, agg.MonthlySummary(result.Records), opts.Format)
	})
}

// RunValidate checks the ledger format and reports the outcome on Stdout.
func RunValidate(c *container.Container, opts Options) error {
	if err := validation.IsValidInputFile(opts.Input); err != nil {
		return err
	}

	valid, err := c.GetLoader().ValidateFormat(opts.Input)
	if err != nil {
		return fmt.Errorf("error validating file: %w", err)
	}
	if !valid {
		return &parsererror.ValidationError{
			FilePath: opts.Input,
			Reason:   "expected a header with the required columns and at least one data row",
			Err:      ErrInvalidFormat,
		}
	}

	if opts.Stdout != nil {
		if _, err := fmt.Fprintf(opts.Stdout, "%s is a valid ledger\n", opts.Input); err != nil {
			return err
		}
	}
	return nil
}

func load(c *container.Container, opts Options) (*ledger.Result, error) {
	loader := c.GetLoader()
	if opts.Year != 0 {
		loader = loader.ForYear(opts.Year)
	}

	result, err := loader.LoadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}
	if len(result.Records) == 0 {
		c.GetLogger().Warn("No usable ledger rows",
			logging.Field{Key: logging.FieldInputFile, Value: opts.Input})
	}
	return result, nil
}

// withOutput runs write against the output file, or Stdout when no output
// file is set.
func withOutput(opts Options, log logging.Logger, write func(io.Writer) error) error {
	if opts.Output == "" {
		w := opts.Stdout
		if w == nil {
			w = io.Discard
		}
		return write(w)
	}

	file, err := fileutils.CreateFile(opts.Output)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(opts.Output)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(opts.Output)
		return fmt.Errorf("error closing output file: %w", err)
	}

	log.Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: opts.Output},
		logging.Field{Key: logging.FieldFormat, Value: opts.Format})
	return nil
}
