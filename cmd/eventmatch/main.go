package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/cli"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "eventmatch",
		Short: "Eventmatch CLI - event service recommendations",
		Long: `Eventmatch CLI queries the recommendation API.

Environment variables:
  EVENTMATCH_API_URL   API base URL (default: http://localhost:8080)
  EVENTMATCH_USER_ID   User id sent as X-User-ID for personalised results`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	rootCmd.PersistentFlags().String("user-id", "", "User id (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.RecommendCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
