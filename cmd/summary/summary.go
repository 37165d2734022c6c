// Package summary implements the monthly spend summary command
package summary

import (
	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/cmd/root"

	"github.com/spf13/cobra"
)

var (
	year       int
	byCategory bool
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize monthly spend",
	Long: `Summarize the ledger per month: total spend, average transaction size and
number of transactions. With --by-category, report the total spend of every
merchant category per month instead.`,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().IntVar(&year, "year", 0, "Only summarize transactions of this year")
	Cmd.Flags().BoolVar(&byCategory, "by-category", false, "Split monthly totals by merchant category")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	root.Log.Debug("Summary command called")

	return common.RunSummary(root.GetContainer(), common.Options{
		Input:      root.SharedFlags.Input,
		Output:     root.SharedFlags.Output,
		Format:     root.OutputFormat(),
		Year:       year,
		ByCategory: byCategory,
		Stdout:     cmd.OutOrStdout(),
	})
}
