package vitals_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/vitals"
)

var _ = Describe("DecodeFields", func() {
	It("decodes measurements and times by their json names", func() {
		observation, err := vitals.DecodeFields([]string{
			"recordedAt=2024-03-01T08:00:00Z",
			"systolic=140",
			"diastolic = 92",
			"temperature=37.8",
			"notes=after a run",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(observation.RecordedAt).To(Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
		Expect(observation.Systolic).To(HaveValue(Equal(140)))
		Expect(observation.Diastolic).To(HaveValue(Equal(92)))
		Expect(observation.Temperature).To(HaveValue(Equal(37.8)))
		Expect(observation.Notes).To(HaveValue(Equal("after a run")))
		Expect(observation.HeartRate).To(BeNil())
	})

	It("rejects unknown fields", func() {
		_, err := vitals.DecodeFields([]string{"weight=80"})
		Expect(err).To(MatchError(errors.BadRequest))
	})

	It("rejects malformed assignments", func() {
		_, err := vitals.DecodeFields([]string{"systolic"})
		Expect(err).To(MatchError(errors.BadRequest))
	})

	It("rejects values of the wrong type", func() {
		_, err := vitals.DecodeFields([]string{"systolic=high"})
		Expect(err).To(MatchError(errors.BadRequest))
	})
})
