// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/container"
	"fjacquet/budget-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	Format     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-csv",
		Short: "A CLI tool to project next month's budget per merchant category from a transaction ledger.",
		Long: `budget-csv reads a delimited transaction ledger, aggregates spend per
merchant category and month, and projects next month's budget for every
category from a recency-weighted average, capped by the median and corrected
for seasonality.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// SharedFlags holds the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appConfig    *config.Config
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags. It is safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input ledger file")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
		flags.StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: table, csv, json or yaml (default from config)")
		flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: $HOME/.budget-csv/config.yaml)")
		flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
		flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format: text or json")
	})
}

// initialize loads .env and the configuration, applies flag overrides and
// builds the dependency container.
func initialize(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}

	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if SharedFlags.Format != "" {
		cfg.Output.Format = SharedFlags.Format
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	appConfig = cfg
	appContainer = c
	Log = c.GetLogger()

	Log.Debug("Command initialized",
		logging.Field{Key: logging.FieldOperation, Value: cmd.Name()},
		logging.Field{Key: logging.FieldFormat, Value: cfg.Output.Format})
	return nil
}

// GetContainer returns the dependency container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// Shutdown closes the dependency container, if one was built.
func Shutdown() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// OutputFormat returns the effective report format.
func OutputFormat() string {
	if SharedFlags.Format != "" {
		return SharedFlags.Format
	}
	if appConfig != nil {
		return appConfig.Output.Format
	}
	return "table"
}
