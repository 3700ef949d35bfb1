package report_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/pointer"
	"github.com/tidepool-org/healthlog/report"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
	vitalsTest "github.com/tidepool-org/healthlog/vitals/test"
	"github.com/tidepool-org/healthlog/zones"
)

const (
	// summarySheetIdx is the 0-based index of the summary sheet in the xlsx.
	summarySheetIdx = 0
	// vitalsSheetIdx is the 0-based index of the vitals sheet in the xlsx.
	vitalsSheetIdx = 1
	// eventsSheetIdx is the 0-based index of the zone events sheet in the xlsx.
	eventsSheetIdx = 2
	// timelineSheetIdx is the 0-based index of the timeline sheet in the xlsx.
	timelineSheetIdx = 3
	// adherenceSheetIdx is the 0-based index of the adherence sheet in the xlsx.
	adherenceSheetIdx = 4
)

var _ = Describe("Report", func() {
	var data report.Data
	var file *xlsx.File
	var sheets [][][]string

	userId := "1234567890"
	start := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		normal := vitalsTest.BloodPressure(userId, start, 120, 80)
		high := vitalsTest.BloodPressure(userId, start.AddDate(0, 0, 1), 145, 95)
		high.Notes = pointer.FromAny("felt dizzy")

		data = report.Data{
			UserId:       userId,
			GeneratedAt:  start.AddDate(0, 1, 0),
			Observations: []vitals.Observation{normal, high},
			Events: []insights.ZoneEvent{{
				Metric:       zones.BloodPressure,
				PreviousZone: zones.Green,
				Zone:         zones.Red,
				ObservedAt:   high.RecordedAt,
				ValueSummary: "145/95 mmHg",
				Insight:      insights.InsightRed,
			}},
			Summaries: []insights.MonthlySummary{{
				MonthKey:     "2026-03",
				Observations: 2,
				Flags:        []string{"BP Amber risk"},
			}},
			Timeline: []timeline.Entry{{
				Date:     high.RecordedAt,
				Category: timeline.CategoryZoneAlert,
				Title:    "Blood pressure: Red",
				Details:  "145/95 mmHg. High - monitor closely.",
			}},
			Days: []adherence.Day{{
				UserId:         userId,
				Date:           "2026-03-02",
				AdherenceScore: 66,
				TakenMedications: []adherence.TakenMedication{
					{MedicationId: "1", MedicationName: "Metformin"},
					{MedicationId: "2", MedicationName: "Lisinopril"},
				},
			}},
			Streak: adherence.Streak{Current: 0, Best: 4},
		}

		var err error
		file, err = report.NewReport(data).Generate()
		Expect(err).ToNot(HaveOccurred())
		Expect(file).ToNot(BeNil())

		sheets, err = file.ToSlice()
		Expect(err).ToNot(HaveOccurred())
	})

	It("has a sheet per section", func() {
		Expect(file.Sheets).To(HaveLen(5))
		Expect(file.Sheets[summarySheetIdx].Name).To(Equal(report.ReportSheetNameSummary))
		Expect(file.Sheets[vitalsSheetIdx].Name).To(Equal(report.ReportSheetNameVitals))
		Expect(file.Sheets[eventsSheetIdx].Name).To(Equal(report.ReportSheetNameZoneEvents))
		Expect(file.Sheets[timelineSheetIdx].Name).To(Equal(report.ReportSheetNameTimeline))
		Expect(file.Sheets[adherenceSheetIdx].Name).To(Equal(report.ReportSheetNameAdherence))
	})

	Context("the summary sheet", func() {
		It("includes the report details", func() {
			summary := sheets[summarySheetIdx]
			Expect(valueOf(summary, "Report Generated")).To(Equal("2026-04-01T08:00:00Z"))
			Expect(valueOf(summary, "User")).To(Equal(userId))
			Expect(valueOf(summary, "Observations")).To(Equal("2"))
			Expect(valueOf(summary, "Zone Events")).To(Equal("1"))
			Expect(valueOf(summary, "Current Streak")).To(Equal("0"))
			Expect(valueOf(summary, "Best Streak")).To(Equal("4"))
		})

		It("includes the monthly summaries", func() {
			summary := sheets[summarySheetIdx]
			Expect(valueOf(summary, "Monthly Summaries (1)")).To(Equal("Observations ---"))
			Expect(valueOf(summary, "2026-03")).To(Equal("2"))
			Expect(rowOf(summary, "2026-03")[2]).To(Equal("BP Amber risk"))
		})
	})

	Context("the vitals sheet", func() {
		It("includes an observation per row", func() {
			rows := sheets[vitalsSheetIdx]
			Expect(rows[0][0]).To(Equal("Recorded At ---"))
			Expect(rows[0][1]).To(Equal("Blood pressure ---"))

			high := rowOf(rows, "2026-03-02T08:00:00Z")
			Expect(high[1]).To(Equal("145/95 mmHg"))
			Expect(high[2]).To(Equal(string(zones.Red)))
			Expect(high[len(high)-1]).To(Equal("felt dizzy"))

			normal := rowOf(rows, "2026-03-01T08:00:00Z")
			Expect(normal[1]).To(Equal("120/80 mmHg"))
			Expect(normal[2]).To(Equal(string(zones.Green)))
		})
	})

	Context("the zone events sheet", func() {
		It("includes the zone transitions", func() {
			event := rowOf(sheets[eventsSheetIdx], "2026-03-02T08:00:00Z")
			Expect(event[1:]).To(Equal([]string{"Blood pressure", "green", "red", "145/95 mmHg", insights.InsightRed}))
		})
	})

	Context("the timeline sheet", func() {
		It("includes the entries", func() {
			entry := rowOf(sheets[timelineSheetIdx], "2026-03-02T08:00:00Z")
			Expect(entry[1:]).To(Equal([]string{"zone_alert", "Blood pressure: Red", "145/95 mmHg. High - monitor closely."}))
		})
	})

	Context("the adherence sheet", func() {
		It("includes the taken medications", func() {
			day := rowOf(sheets[adherenceSheetIdx], "2026-03-02")
			Expect(day[1:]).To(Equal([]string{"66", "Metformin, Lisinopril"}))
		})
	})

	It("can be written to a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "report.xlsx")
		Expect(file.Save(path)).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})
})

func rowOf(rows [][]string, label string) []string {
	for _, row := range rows {
		if len(row) > 0 && row[0] == label {
			return row
		}
	}
	Fail("row " + label + " not found")
	return nil
}

func valueOf(rows [][]string, label string) string {
	row := rowOf(rows, label)
	Expect(len(row)).To(BeNumerically(">", 1))
	return row[1]
}
