package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/handlers"
)

// RecommendRequest is the body of POST /recommendations.
type RecommendRequest struct {
	Budget      float64 `json:"budget"`
	Location    string  `json:"location,omitempty"`
	Guests      int     `json:"guests,omitempty"`
	EventType   string  `json:"eventType,omitempty"`
	ServiceType string  `json:"serviceType"`
}

// RecommendCmd creates the recommend command.
func RecommendCmd() *cobra.Command {
	var req RecommendRequest

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get ranked service recommendations",
		Long:  "Scores approved services of one category against a budget and event details, grouped into best match, above budget and below budget.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api := NewAPIClientWithCmd(cmd)
			return runRecommend(cmd.Context(), api, req, outputJSON, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64VarP(&req.Budget, "budget", "b", 0, "Budget (per person for catering)")
	cmd.Flags().StringVarP(&req.ServiceType, "service-type", "s", "", "Service category: VENUE, CATERING, PHOTOGRAPHER or DESIGNER")
	cmd.Flags().StringVarP(&req.Location, "location", "l", "", "Event location")
	cmd.Flags().IntVarP(&req.Guests, "guests", "g", 0, "Number of guests")
	cmd.Flags().StringVarP(&req.EventType, "event-type", "e", "", "Event type, e.g. wedding")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("service-type")

	return cmd
}

func runRecommend(ctx context.Context, api *APIClient, req RecommendRequest, outputJSON bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var resp handlers.RecommendationResponse
	if err := api.PostJSON(ctx, "/recommendations", req, &resp); err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	totals := resp.Metadata.TotalResults
	if totals.Total == 0 {
		fmt.Fprintln(out, "No matching services found.")
		return nil
	}

	printBucket(out, "Best match", resp.Recommendations.BestMatch)
	printBucket(out, "Above budget", resp.Recommendations.AboveBudget)
	printBucket(out, "Below budget", resp.Recommendations.BelowBudget)

	fmt.Fprintf(out, "%d results", totals.Total)
	if totals.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped)", totals.Skipped)
	}
	fmt.Fprintln(out)
	return nil
}

func printBucket(out io.Writer, title string, entries []handlers.CandidateResponse) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(out, "%s (%d)\n", title, len(entries))
	fmt.Fprintln(out, strings.Repeat("-", 40))
	for i, e := range entries {
		fmt.Fprintf(out, "%d. %s  %.2f  score %.3f\n", i+1, e.Name, e.Price, e.TotalScore)
		if e.PriceUnit == "per_person" {
			fmt.Fprintln(out, "   price per person")
		}
		if e.Location != "" {
			fmt.Fprintf(out, "   Location: %s\n", e.Location)
		}
		if e.Capacity != nil {
			fmt.Fprintf(out, "   Capacity: %d\n", *e.Capacity)
		}
		fmt.Fprintf(out, "   ID: %s\n", e.ID)
	}
	fmt.Fprintln(out)
}
