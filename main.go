// Package main provides the entry point for the budget-csv CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/budget-csv/cmd/project"
	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/cmd/summary"
	"fjacquet/budget-csv/cmd/validate"
	"fjacquet/budget-csv/internal/config"
)

func init() {
	// Load .env before any flag or config is read
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(project.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	if closeErr := root.Shutdown(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
