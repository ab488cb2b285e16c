package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/cli"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "eventmatchd",
		Short: "Event services recommendation daemon",
		Long:  "Runs the recommendation API server and manages its database schema",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
