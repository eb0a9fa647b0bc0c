package main

import (
	"context"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/spf13/cobra"
)

var searchTimeout time.Duration

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the configured shopping malls and compare prices",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "overall time limit for the lookup")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}
	defer services.Close()

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	report, err := services.Comparison.Compare(ctx, &domain.ComparisonRequest{Query: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	return printReport(cmd, report)
}
