package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/finance-peres/cmd/monthly"
	"fjacquet/finance-peres/cmd/remote"
	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/cmd/serve"
	"fjacquet/finance-peres/cmd/transactions"
	"fjacquet/finance-peres/internal/config"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Initialize root command flags
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(transactions.ListCmd)
	root.Cmd.AddCommand(transactions.AddCmd)
	root.Cmd.AddCommand(transactions.EditCmd)
	root.Cmd.AddCommand(transactions.RemoveCmd)
	root.Cmd.AddCommand(transactions.ToggleCmd)
	root.Cmd.AddCommand(monthly.CopyCmd)
	root.Cmd.AddCommand(monthly.SummaryCmd)
	root.Cmd.AddCommand(monthly.ReportCmd)
	root.Cmd.AddCommand(monthly.InsightsCmd)
	root.Cmd.AddCommand(monthly.ExportCmd)
	root.Cmd.AddCommand(remote.Cmd)
	root.Cmd.AddCommand(remote.StatusCmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
