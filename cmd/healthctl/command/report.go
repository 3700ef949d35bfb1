package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/healthlog/report"
)

var output string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a user report",
	Long:  "The report command writes the vitals, zone events, timeline and adherence of a user to an xlsx spreadsheet",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(writeReport) },
}

func writeReport(service report.Service) error {
	file, err := service.Generate(context.Background(), userId)
	if err != nil {
		return err
	}
	if err := file.Save(output); err != nil {
		return fmt.Errorf("unable to save report: %w", err)
	}

	fmt.Printf("Report written to %s\n", output)
	return nil
}

func init() {
	requireUser(reportCmd)
	reportCmd.Flags().StringVarP(&output, "output", "o", "report.xlsx", "Path of the generated spreadsheet")
	rootCmd.AddCommand(reportCmd)
}
