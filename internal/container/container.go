// Package container provides dependency injection for the budget-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/budget-csv/internal/aggregator"
	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/ledger"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/projector"
	"fjacquet/budget-csv/internal/report"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	loader     *ledger.Loader
	aggregator *aggregator.Aggregator
	projector  *projector.Projector
	reporter   *report.Generator
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an externally built logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	loader := ledger.NewLoader(ledger.OptionsFromConfig(cfg), logger)
	agg := aggregator.NewAggregator(logger)
	proj := projector.NewProjector(projector.OptionsFromConfig(cfg), logger)
	reporter := report.NewGenerator(logger, cfg.DelimiterRune(), cfg.Projection.Places)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldWorkers, Value: cfg.EffectiveWorkers()},
		logging.Field{Key: "rounding", Value: cfg.Projection.Rounding},
		logging.Field{Key: logging.FieldFormat, Value: cfg.Output.Format})

	return &Container{
		logger:     logger,
		config:     cfg,
		loader:     loader,
		aggregator: agg,
		projector:  proj,
		reporter:   reporter,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLoader returns the ledger loader.
func (c *Container) GetLoader() *ledger.Loader {
	return c.loader
}

// GetAggregator returns the category monthly aggregator.
func (c *Container) GetAggregator() *aggregator.Aggregator {
	return c.aggregator
}

// GetProjector returns the budget projector.
func (c *Container) GetProjector() *projector.Projector {
	return c.projector
}

// GetReportGenerator returns the report writer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reporter
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
