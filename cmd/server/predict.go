package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"route-time-service/internal/api/dto"
	"route-time-service/internal/app"

	"github.com/spf13/cobra"
)

var predictInput string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the travel time of one request read from a JSON file",
	Long: "Reads a route-time request body (the same JSON accepted by POST /api/route-time)\n" +
		"from --input, or stdin when omitted, and prints the response envelope.",
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "", "request JSON file (default stdin)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	in := os.Stdin
	if predictInput != "" {
		f, err := os.Open(predictInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var body dto.RouteRequest
	if err := json.NewDecoder(in).Decode(&body); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	req, err := body.ToDomain()
	if err != nil {
		return err
	}

	svc, err := app.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	travelTime, err := svc.Estimator.Estimate(ctx, req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewRouteAPIResponse(travelTime, err))
}
