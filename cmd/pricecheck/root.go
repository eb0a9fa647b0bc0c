package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/bootstrap"
	"github.com/pricelens/backend/internal/domain"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	failEmpty  bool
)

var rootCmd = &cobra.Command{
	Use:   "pricecheck",
	Short: "Compare Korean shopping mall prices from the command line",
	Long: `pricecheck runs the price extraction pipeline: it searches the configured shopping
malls for a product, or extracts prices from a saved page or snippet text, and prints
a ranked comparison report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			log.SetOutput(io.Discard)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show pipeline logs on stderr")
	rootCmd.PersistentFlags().BoolVar(&failEmpty, "fail-empty", false, "exit non-zero when no price is found")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadServices reads configuration the same way the server does
func loadServices() (*bootstrap.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return bootstrap.New(cfg), nil
}

// readInput returns the contents of path, or stdin for "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printReport(cmd *cobra.Command, report *domain.ComparisonReport) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, report.Report)
	}

	if failEmpty && len(report.Observations) == 0 {
		return domain.ErrNoPrices
	}
	return nil
}
