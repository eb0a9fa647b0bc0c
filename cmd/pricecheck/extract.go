package main

import (
	"github.com/spf13/cobra"
)

var (
	markupFile  string
	markupBase  string
	markupQuery string

	textFile  string
	textQuery string
)

var markupCmd = &cobra.Command{
	Use:   "markup",
	Short: "Extract product prices from a saved shop search page",
	RunE:  runMarkup,
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Extract merchant prices from search snippet text",
	RunE:  runText,
}

func init() {
	markupCmd.Flags().StringVarP(&markupFile, "file", "f", "-", "HTML file to read, - for stdin")
	markupCmd.Flags().StringVar(&markupBase, "base", "", "URL the page was fetched from, used for links and merchant attribution")
	markupCmd.Flags().StringVarP(&markupQuery, "query", "q", "", "product query shown in the report")
	rootCmd.AddCommand(markupCmd)

	textCmd.Flags().StringVarP(&textFile, "file", "f", "-", "text file to read, - for stdin")
	textCmd.Flags().StringVarP(&textQuery, "query", "q", "", "product query shown in the report")
	rootCmd.AddCommand(textCmd)
}

func runMarkup(cmd *cobra.Command, args []string) error {
	document, err := readInput(cmd, markupFile)
	if err != nil {
		return err
	}

	services, err := loadServices()
	if err != nil {
		return err
	}
	defer services.Close()

	return printReport(cmd, services.Comparison.ExtractMarkup(document, markupBase, markupQuery))
}

func runText(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, textFile)
	if err != nil {
		return err
	}

	services, err := loadServices()
	if err != nil {
		return err
	}
	defer services.Close()

	return printReport(cmd, services.Comparison.ExtractText(text, textQuery))
}
