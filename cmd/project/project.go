// Package project implements the budget projection command
package project

import (
	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/cmd/root"

	"github.com/spf13/cobra"
)

var (
	explain bool
	year    int
	workers int
)

// Cmd represents the project command
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Project next month's budget per merchant category",
	Long: `Load a transaction ledger, aggregate spend per merchant category and month,
and project the budget of the month following each category's last observed
month. When the ledger carries a sender id column, monthly spend is the mean
across senders instead of the total.`,
	RunE: projectFunc,
}

func init() {
	Cmd.Flags().BoolVar(&explain, "explain", false, "Show every intermediate value of the projection")
	Cmd.Flags().IntVar(&year, "year", 0, "Only use transactions of this year")
	Cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent category projections (default from config)")
}

func projectFunc(cmd *cobra.Command, args []string) error {
	root.Log.Debug("Project command called")

	return common.RunProjection(cmd.Context(), root.GetContainer(), common.Options{
		Input:   root.SharedFlags.Input,
		Output:  root.SharedFlags.Output,
		Format:  root.OutputFormat(),
		Year:    year,
		Explain: explain,
		Workers: workers,
		Stdout:  cmd.OutOrStdout(),
	})
}
