package zones_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/zones"
)

var _ = Describe("Classify", func() {
	DescribeTable("scalar metrics",
		func(metric zones.Metric, value float64, expected zones.Zone) {
			zone, err := zones.Classify(metric, value)
			Expect(err).ToNot(HaveOccurred())
			Expect(zone).To(Equal(expected))
		},
		Entry("heart rate normal", zones.HeartRate, 72.0, zones.Green),
		Entry("heart rate just above low red cutoff", zones.HeartRate, 51.0, zones.Green),
		Entry("heart rate at low red cutoff", zones.HeartRate, 50.0, zones.Red),
		Entry("heart rate below low red cutoff", zones.HeartRate, 42.0, zones.Red),
		Entry("heart rate below amber", zones.HeartRate, 89.0, zones.Green),
		Entry("heart rate at amber", zones.HeartRate, 90.0, zones.Amber),
		Entry("heart rate top of amber", zones.HeartRate, 109.0, zones.Amber),
		Entry("heart rate at red", zones.HeartRate, 110.0, zones.Red),
		Entry("temperature normal", zones.Temperature, 36.8, zones.Green),
		Entry("temperature below amber", zones.Temperature, 37.3, zones.Green),
		Entry("temperature at amber", zones.Temperature, 37.4, zones.Amber),
		Entry("temperature below red", zones.Temperature, 37.9, zones.Amber),
		Entry("temperature at red", zones.Temperature, 38.0, zones.Red),
		Entry("spo2 normal", zones.Spo2, 98.0, zones.Green),
		Entry("spo2 at amber boundary", zones.Spo2, 95.0, zones.Green),
		Entry("spo2 amber", zones.Spo2, 94.0, zones.Amber),
		Entry("spo2 at red boundary", zones.Spo2, 92.0, zones.Amber),
		Entry("spo2 red", zones.Spo2, 91.0, zones.Red),
		Entry("respiratory rate normal", zones.RespiratoryRate, 16.0, zones.Green),
		Entry("respiratory rate just above low red cutoff", zones.RespiratoryRate, 11.0, zones.Green),
		Entry("respiratory rate at low red cutoff", zones.RespiratoryRate, 10.0, zones.Red),
		Entry("respiratory rate at amber", zones.RespiratoryRate, 20.0, zones.Amber),
		Entry("respiratory rate top of amber", zones.RespiratoryRate, 23.0, zones.Amber),
		Entry("respiratory rate at red", zones.RespiratoryRate, 24.0, zones.Red),
		Entry("glucose normal", zones.Glucose, 99.0, zones.Green),
		Entry("glucose at amber", zones.Glucose, 140.0, zones.Amber),
		Entry("glucose elevated", zones.Glucose, 165.0, zones.Amber),
		Entry("glucose at red", zones.Glucose, 180.0, zones.Red),
		Entry("glucose high", zones.Glucose, 190.0, zones.Red),
	)

	DescribeTable("blood pressure pairs",
		func(systolic, diastolic float64, expected zones.Zone) {
			Expect(zones.ClassifyBloodPressure(systolic, diastolic)).To(Equal(expected))
		},
		Entry("normal", 120.0, 80.0, zones.Green),
		Entry("systolic amber", 130.0, 80.0, zones.Amber),
		Entry("diastolic amber", 120.0, 85.0, zones.Amber),
		Entry("systolic red", 140.0, 70.0, zones.Red),
		Entry("diastolic red", 118.0, 90.0, zones.Red),
		Entry("red dominates amber", 132.0, 95.0, zones.Red),
		Entry("both red", 148.0, 95.0, zones.Red),
		Entry("just below both amber", 129.0, 84.0, zones.Green),
	)

	It("requires a pair for blood pressure", func() {
		_, err := zones.Classify(zones.BloodPressure, 140)
		Expect(err).To(MatchError(zones.ErrPairRequired))
	})

	It("rejects unknown metrics", func() {
		_, err := zones.Classify(zones.Metric("weight"), 80)
		Expect(err).To(MatchError(zones.ErrUnknownMetric))
	})

	Describe("monotonicity", func() {
		severity := func(z zones.Zone) int { return z.Rank() }

		DescribeTable("one-sided metrics never decrease in severity as values rise",
			func(metric zones.Metric, from, to, step float64) {
				previous := zones.Green
				for v := from; v <= to; v += step {
					zone, err := zones.Classify(metric, v)
					Expect(err).ToNot(HaveOccurred())
					Expect(severity(zone)).To(BeNumerically(">=", severity(previous)), "value %v", v)
					previous = zone
				}
			},
			Entry("temperature", zones.Temperature, 35.0, 41.0, 0.1),
			Entry("glucose", zones.Glucose, 60.0, 300.0, 1.0),
		)

		It("never decreases in severity as spo2 falls", func() {
			previous := zones.Green
			for v := 100.0; v >= 80; v-- {
				zone, err := zones.Classify(zones.Spo2, v)
				Expect(err).ToNot(HaveOccurred())
				Expect(severity(zone)).To(BeNumerically(">=", severity(previous)), "value %v", v)
				previous = zone
			}
		})

		It("never decreases in severity as blood pressure rises", func() {
			for systolic := 100.0; systolic <= 170; systolic++ {
				previous := zones.Green
				for diastolic := 60.0; diastolic <= 110; diastolic++ {
					zone := zones.ClassifyBloodPressure(systolic, diastolic)
					Expect(severity(zone)).To(BeNumerically(">=", severity(previous)))
					previous = zone
				}
			}
		})

		DescribeTable("two-sided metrics are red at both extremes",
			func(metric zones.Metric, low, high float64) {
				Expect(zones.Classify(metric, low)).To(Equal(zones.Red))
				Expect(zones.Classify(metric, high)).To(Equal(zones.Red))
			},
			Entry("heart rate", zones.HeartRate, 35.0, 150.0),
			Entry("respiratory rate", zones.RespiratoryRate, 6.0, 30.0),
		)
	})

	Describe("FormatValue", func() {
		It("formats values with their units", func() {
			Expect(zones.FormatBloodPressure(148, 95)).To(Equal("148/95 mmHg"))
			Expect(zones.FormatValue(zones.HeartRate, 112)).To(Equal("112 bpm"))
			Expect(zones.FormatValue(zones.Temperature, 38.2)).To(Equal("38.2 °C"))
			Expect(zones.FormatValue(zones.Spo2, 91)).To(Equal("91%"))
			Expect(zones.FormatValue(zones.Glucose, 190)).To(Equal("190 mg/dL"))
		})
	})
})
