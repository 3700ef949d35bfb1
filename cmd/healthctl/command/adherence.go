package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/healthlog/adherence"
)

var adherenceCmd = &cobra.Command{
	Use:   "adherence",
	Short: "Manage medication adherence",
	Long:  "The adherence command is used to record doses and inspect adherence streaks",
}

var adherenceStreaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Print adherence streaks",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(printStreaks) },
}

var medication adherence.Medication

var adherenceTakeCmd = &cobra.Command{
	Use:   "take",
	Short: "Mark a medication as taken today",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(markTaken) },
}

func printStreaks(service adherence.Service) error {
	streak, err := service.Streaks(context.Background(), userId)
	if err != nil {
		return err
	}

	fmt.Printf("Current streak: %d days\n", streak.Current)
	fmt.Printf("Best streak: %d days\n", streak.Best)
	return nil
}

func markTaken(service adherence.Service) error {
	result, err := service.MarkTaken(context.Background(), userId, medication)
	if err != nil {
		return err
	}

	if result.AlreadyTaken {
		fmt.Printf("%s was already taken on %s\n", medication.Name, result.Day.Date)
	} else {
		fmt.Printf("Marked %s as taken on %s, adherence score %d\n", medication.Name, result.Day.Date, result.Day.AdherenceScore)
	}
	fmt.Printf("Current streak: %d days, best: %d days\n", result.Streak.Current, result.Streak.Best)
	return nil
}

func init() {
	requireUser(adherenceStreaksCmd)
	requireUser(adherenceTakeCmd)
	adherenceTakeCmd.Flags().StringVar(&medication.Id, "medication-id", "", "Id of the medication")
	adherenceTakeCmd.Flags().StringVar(&medication.Name, "name", "", "Name of the medication")
	adherenceTakeCmd.Flags().StringVar(&medication.Dosage, "dosage", "", "Dosage taken")
	_ = adherenceTakeCmd.MarkFlagRequired("medication-id")
	_ = adherenceTakeCmd.MarkFlagRequired("name")

	adherenceCmd.AddCommand(adherenceStreaksCmd)
	adherenceCmd.AddCommand(adherenceTakeCmd)
	rootCmd.AddCommand(adherenceCmd)
}
