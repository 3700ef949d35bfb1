package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
	"github.com/tidepool-org/healthlog/zones"
)

const (
	ReportSheetNameSummary    = "Summary"
	ReportSheetNameVitals     = "Vitals"
	ReportSheetNameZoneEvents = "Zone Events"
	ReportSheetNameTimeline   = "Timeline"
	ReportSheetNameAdherence  = "Adherence"

	TimeFormat = time.RFC3339
)

// Data is everything known about a single user at the time the report is generated
type Data struct {
	UserId      string
	GeneratedAt time.Time

	Observations []vitals.Observation
	Events       []insights.ZoneEvent
	Summaries    []insights.MonthlySummary
	Timeline     []timeline.Entry
	Days         []adherence.Day
	Streak       adherence.Streak
}

type Report struct {
	data Data
}

func NewReport(data Data) Report {
	return Report{data: data}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addSummarySheet,
		r.addVitalsSheet,
		r.addZoneEventsSheet,
		r.addTimelineSheet,
		r.addAdherenceSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue("Health Log Report")
	sh.AddRow()

	addPair(sh, "Report Generated", r.data.GeneratedAt.Format(TimeFormat))
	addPair(sh, "User", r.data.UserId)
	addPair(sh, "Observations", strconv.Itoa(len(r.data.Observations)))
	addPair(sh, "Zone Events", strconv.Itoa(len(r.data.Events)))
	addPair(sh, "Current Streak", strconv.Itoa(r.data.Streak.Current))
	addPair(sh, "Best Streak", strconv.Itoa(r.data.Streak.Best))
	sh.AddRow()

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue(fmt.Sprintf("Monthly Summaries (%v)", len(r.data.Summaries)))
	currentRow.AddCell().SetValue("Observations ---")
	currentRow.AddCell().SetValue("Flags ---")
	for _, summary := range r.data.Summaries {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(summary.MonthKey)
		currentRow.AddCell().SetValue(strconv.Itoa(summary.Observations))
		currentRow.AddCell().SetValue(strings.Join(summary.Flags, ", "))
	}

	return nil
}

func (r Report) addVitalsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameVitals)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Recorded At ---")
	for _, metric := range zones.Metrics {
		currentRow.AddCell().SetValue(metric.DisplayName() + " ---")
		currentRow.AddCell().SetValue("Zone ---")
	}
	currentRow.AddCell().SetValue("Notes ---")

	for _, observation := range r.data.Observations {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(observation.RecordedAt.Format(TimeFormat))
		for _, metric := range zones.Metrics {
			currentRow.AddCell().SetValue(observation.ValueSummary(metric))
			zone, ok := observation.Classify(metric)
			if ok {
				currentRow.AddCell().SetValue(string(zone))
			} else {
				currentRow.AddCell().SetValue("")
			}
		}
		if observation.Notes != nil {
			currentRow.AddCell().SetValue(*observation.Notes)
		} else {
			currentRow.AddCell().SetValue("")
		}
	}

	return nil
}

func (r Report) addZoneEventsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameZoneEvents)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Observed At ---")
	currentRow.AddCell().SetValue("Metric ---")
	currentRow.AddCell().SetValue("Previous Zone ---")
	currentRow.AddCell().SetValue("Zone ---")
	currentRow.AddCell().SetValue("Value ---")
	currentRow.AddCell().SetValue("Insight ---")

	for _, event := range r.data.Events {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(event.ObservedAt.Format(TimeFormat))
		currentRow.AddCell().SetValue(event.Metric.DisplayName())
		currentRow.AddCell().SetValue(string(event.PreviousZone))
		currentRow.AddCell().SetValue(string(event.Zone))
		currentRow.AddCell().SetValue(event.ValueSummary)
		currentRow.AddCell().SetValue(event.Insight)
	}

	return nil
}

func (r Report) addTimelineSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameTimeline)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Date ---")
	currentRow.AddCell().SetValue("Category ---")
	currentRow.AddCell().SetValue("Title ---")
	currentRow.AddCell().SetValue("Details ---")

	for _, entry := range r.data.Timeline {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(entry.Date.Format(TimeFormat))
		currentRow.AddCell().SetValue(string(entry.Category))
		currentRow.AddCell().SetValue(entry.Title)
		currentRow.AddCell().SetValue(entry.Details)
	}

	return nil
}

func (r Report) addAdherenceSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameAdherence)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Date ---")
	currentRow.AddCell().SetValue("Score ---")
	currentRow.AddCell().SetValue("Medications ---")

	for _, day := range r.data.Days {
		names := make([]string, 0, len(day.TakenMedications))
		for _, medication := range day.TakenMedications {
			names = append(names, medication.MedicationName)
		}

		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(day.Date)
		currentRow.AddCell().SetValue(strconv.Itoa(day.AdherenceScore))
		currentRow.AddCell().SetValue(strings.Join(names, ", "))
	}

	return nil
}

func addPair(sh *xlsx.Sheet, label string, value string) {
	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue(label)
	currentRow.AddCell().SetValue(value)
}
