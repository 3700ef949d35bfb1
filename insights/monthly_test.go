package insights_test

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/pointer"
	"github.com/tidepool-org/healthlog/test"
	"github.com/tidepool-org/healthlog/vitals"
	vitalsTest "github.com/tidepool-org/healthlog/vitals/test"
	"github.com/tidepool-org/healthlog/zones"
)

var _ = Describe("DeriveMonthlySummaries", func() {
	var userId string

	BeforeEach(func() {
		userId = test.Faker.UUID().V4()
	})

	glucose := func(recordedAt time.Time, value int) vitals.Observation {
		return vitals.Observation{
			UserId:     userId,
			RecordedAt: recordedAt,
			Glucose:    pointer.FromAny(value),
		}
	}

	It("returns an empty list for no observations", func() {
		summaries := insights.DeriveMonthlySummaries(nil)
		Expect(summaries).ToNot(BeNil())
		Expect(summaries).To(BeEmpty())
	})

	DescribeTable("flags glucose by the monthly mean",
		func(values []int, expectedMean int, expectedFlags []string) {
			observations := make([]vitals.Observation, 0, len(values))
			for i, v := range values {
				observations = append(observations, glucose(time.Date(2024, 3, 1+i, 9, 0, 0, 0, time.UTC), v))
			}

			summaries := insights.DeriveMonthlySummaries(observations)
			Expect(summaries).To(HaveLen(1))
			Expect(summaries[0].MonthKey).To(Equal("2024-03"))
			Expect(summaries[0].Means.Glucose).To(HaveValue(Equal(expectedMean)))
			Expect(summaries[0].Flags).To(Equal(expectedFlags))
		},
		Entry("normal", []int{100, 110}, 105, []string{}),
		Entry("elevated", []int{165}, 165, []string{"Glucose Elevated"}),
		Entry("elevated mean of mixed values", []int{150, 180}, 165, []string{"Glucose Elevated"}),
		Entry("high", []int{190}, 190, []string{"Glucose High"}),
	)

	It("anchors the summary at the latest observation of the month", func() {
		latest := time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)
		summaries := insights.DeriveMonthlySummaries([]vitals.Observation{
			glucose(latest, 100),
			glucose(time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), 100),
		})

		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].AnchorDate).To(Equal(latest))
		Expect(summaries[0].Observations).To(Equal(2))
	})

	It("flags blood pressure only when both means exist", func() {
		systolicOnly := vitalsTest.BloodPressure(userId, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), 150, 95)
		systolicOnly.Diastolic = nil

		summaries := insights.DeriveMonthlySummaries([]vitals.Observation{systolicOnly})
		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].Means.Systolic).To(HaveValue(Equal(150)))
		Expect(summaries[0].Flags).To(BeEmpty())
		Expect(summaries[0].Zones).ToNot(HaveKey(zones.BloodPressure))
	})

	It("flags blood pressure from the mean pair", func() {
		day := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
		summaries := insights.DeriveMonthlySummaries([]vitals.Observation{
			vitalsTest.BloodPressure(userId, day, 150, 95),
			vitalsTest.BloodPressure(userId, day.AddDate(0, 0, 1), 150, 95),
		})

		Expect(summaries[0].Zones).To(HaveKeyWithValue(zones.BloodPressure, zones.Red))
		Expect(summaries[0].Flags).To(ConsistOf("BP Red risk"))
	})

	It("rounds temperature means to one decimal", func() {
		day := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
		summaries := insights.DeriveMonthlySummaries([]vitals.Observation{
			{UserId: userId, RecordedAt: day, Temperature: pointer.FromAny(37.0)},
			{UserId: userId, RecordedAt: day.AddDate(0, 0, 1), Temperature: pointer.FromAny(38.0)},
		})

		Expect(*summaries[0].Means.Temperature).To(Equal(37.5))
		Expect(summaries[0].Flags).To(ConsistOf("Low-grade Fever"))
	})

	It("returns one summary per distinct month ordered by month", func() {
		series := vitalsTest.RandomSeries(userId, time.Date(2023, 11, 15, 6, 0, 0, 0, time.UTC), 120)
		test.Rand.Shuffle(len(series), func(i, j int) { series[i], series[j] = series[j], series[i] })

		months := mapset.NewSet[string]()
		for _, o := range series {
			months.Add(insights.MonthKey(o.RecordedAt))
		}

		summaries := insights.DeriveMonthlySummaries(series)
		Expect(summaries).To(HaveLen(months.Cardinality()))

		total := 0
		for i, summary := range summaries {
			Expect(months.Contains(summary.MonthKey)).To(BeTrue())
			if i > 0 {
				Expect(summary.MonthKey > summaries[i-1].MonthKey).To(BeTrue())
			}
			total += summary.Observations
		}
		Expect(total).To(Equal(len(series)))
	})
})
