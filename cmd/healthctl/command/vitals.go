package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/healthlog/api"
	"github.com/tidepool-org/healthlog/vitals"
)

var vitalsCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Manage vitals",
	Long:  "The vitals command is used to record and classify vital signs",
}

var fields []string

var vitalsAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Record an observation",
	Example: "healthctl vitals add --user <id> --set recordedAt=2024-03-01T08:00:00Z --set systolic=140 --set diastolic=92",
	RunE:    func(cmd *cobra.Command, args []string) error { return Run(addObservation) },
}

var classifyParams = struct {
	Metric    string
	Value     float64
	Systolic  float64
	Diastolic float64
}{}

var vitalsClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single reading",
	Long:  "The classify command prints the zone of a reading without storing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		request := api.ClassifyRequest{Metric: classifyParams.Metric}
		if cmd.Flags().Changed("value") {
			request.Value = &classifyParams.Value
		}
		if cmd.Flags().Changed("systolic") {
			request.Systolic = &classifyParams.Systolic
		}
		if cmd.Flags().Changed("diastolic") {
			request.Diastolic = &classifyParams.Diastolic
		}

		result, err := api.Classify(request)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %s. %s\n", result.Metric.DisplayName(), result.ValueSummary, result.Zone, result.Insight)
		return nil
	},
}

func addObservation(service vitals.Service) error {
	observation, err := vitals.DecodeFields(fields)
	if err != nil {
		return err
	}
	observation.UserId = userId

	created, err := service.Create(context.Background(), observation)
	if err != nil {
		return err
	}
	fmt.Printf("Created observation %s recorded at %s\n", created.Id.Hex(), created.RecordedAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}

func init() {
	requireUser(vitalsAddCmd)
	vitalsAddCmd.Flags().StringArrayVar(&fields, "set", nil, "Field assignment, e.g. systolic=140")

	vitalsClassifyCmd.Flags().StringVar(&classifyParams.Metric, "metric", "", "Metric to classify")
	vitalsClassifyCmd.Flags().Float64Var(&classifyParams.Value, "value", 0, "Value of scalar metrics")
	vitalsClassifyCmd.Flags().Float64Var(&classifyParams.Systolic, "systolic", 0, "Systolic blood pressure")
	vitalsClassifyCmd.Flags().Float64Var(&classifyParams.Diastolic, "diastolic", 0, "Diastolic blood pressure")
	_ = vitalsClassifyCmd.MarkFlagRequired("metric")

	vitalsCmd.AddCommand(vitalsAddCmd)
	vitalsCmd.AddCommand(vitalsClassifyCmd)
	rootCmd.AddCommand(vitalsCmd)
}
