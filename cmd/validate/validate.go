// Package validate implements the ledger format validation command
package validate

import (
	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a ledger has the required columns and data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.RunValidate(root.GetContainer(), common.Options{
			Input:  root.SharedFlags.Input,
			Stdout: cmd.OutOrStdout(),
		})
	},
}
