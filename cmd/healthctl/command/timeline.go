package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/healthlog/insights"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Manage user timelines",
	Long:  "The timeline command is used to rebuild the timeline entries derived from vitals",
}

var prune bool

var timelineRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh a user timeline",
	Long:  "The refresh command derives zone events and monthly summaries of a user and merges them into the timeline",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(refreshTimeline) },
}

func refreshTimeline(service insights.Service) error {
	result, err := service.Refresh(context.Background(), userId, insights.RefreshOptions{Prune: prune})
	if err != nil {
		return err
	}

	fmt.Printf("Derived %d zone events and %d monthly summaries\n", result.ZoneEvents, result.Summaries)
	fmt.Printf("Inserted %d, updated %d, unchanged %d entries\n", result.Inserted, result.Updated, result.Unchanged)
	fmt.Printf("Enqueued %d zone alerts\n", result.AlertsEnqueued)
	if prune {
		fmt.Printf("Pruned %d stale entries\n", result.Pruned)
	}
	return nil
}

func init() {
	requireUser(timelineRefreshCmd)
	timelineRefreshCmd.Flags().BoolVar(&prune, "prune", false, "Remove derived entries which can no longer be derived")
	timelineCmd.AddCommand(timelineRefreshCmd)
	rootCmd.AddCommand(timelineCmd)
}
