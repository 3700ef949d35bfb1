package adherence_test

import (
	"time"

	"github.com/mohae/deepcopy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/adherence"
	adherenceTest "github.com/tidepool-org/healthlog/adherence/test"
	"github.com/tidepool-org/healthlog/test"
)

var _ = Describe("ComputeStreaks", func() {
	var userId string
	var today time.Time

	BeforeEach(func() {
		userId = test.Faker.UUID().V4()
		today = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	})

	It("returns zero streaks for no days", func() {
		Expect(adherence.ComputeStreaks(nil)).To(Equal(adherence.Streak{}))
	})

	It("counts consecutive good days", func() {
		days := adherenceTest.Days(userId, today, 5, 100)
		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 5, Best: 5}))
	})

	It("breaks the run on a day below the good score", func() {
		days := adherenceTest.Days(userId, today, 5, 100)
		days[2].AdherenceScore = 50

		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 2, Best: 2}))
	})

	It("has no current streak when the most recent day is not good", func() {
		days := adherenceTest.Days(userId, today, 4, 99)
		days[0].AdherenceScore = 66

		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 0, Best: 3}))
	})

	It("starts a new run after a missing day", func() {
		days := append(
			adherenceTest.Days(userId, today, 2, 100),
			adherenceTest.Days(userId, today.AddDate(0, 0, -3), 4, 100)...,
		)

		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 2, Best: 4}))
	})

	It("treats a score of exactly 80 as good", func() {
		days := adherenceTest.Days(userId, today, 3, 80)
		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 3, Best: 3}))
	})

	It("ignores days with a malformed date", func() {
		days := adherenceTest.Days(userId, today, 3, 100)
		days = append(days, adherence.Day{UserId: userId, Date: "yesterday", AdherenceScore: 100})

		Expect(adherence.ComputeStreaks(days)).To(Equal(adherence.Streak{Current: 3, Best: 3}))
	})

	It("does not depend on the order of the input and does not modify it", func() {
		days := adherenceTest.Days(userId, today, 30, 100)
		for i := range days {
			if test.Faker.IntBetween(0, 3) == 0 {
				days[i].AdherenceScore = 33
			}
		}
		expected := adherence.ComputeStreaks(days)

		test.Rand.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
		snapshot := deepcopy.Copy(days).([]adherence.Day)

		streak := adherence.ComputeStreaks(days)
		Expect(streak).To(Equal(expected))
		Expect(streak.Best).To(BeNumerically(">=", streak.Current))
		Expect(days).To(Equal(snapshot))
	})
})

var _ = Describe("MarkTaken", func() {
	var userId string
	var now time.Time
	var medication adherence.Medication

	BeforeEach(func() {
		userId = test.Faker.UUID().V4()
		now = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
		medication = adherenceTest.RandomMedication()
	})

	It("creates today's day when missing", func() {
		days := adherence.MarkTaken(nil, medication, now)

		Expect(days).To(HaveLen(1))
		Expect(days[0].Date).To(Equal("2024-03-10"))
		Expect(days[0].TakenMedications).To(HaveLen(1))
		Expect(days[0].TakenMedications[0].MedicationId).To(Equal(medication.Id))
		Expect(days[0].TakenMedications[0].TimeTaken).To(Equal(now))
		Expect(days[0].AdherenceScore).To(Equal(33))
	})

	It("is idempotent for the same medication on the same day", func() {
		once := adherence.MarkTaken(nil, medication, now)
		twice := adherence.MarkTaken(once, medication, now.Add(time.Hour))

		Expect(twice).To(Equal(once))
	})

	It("adds 33 points per distinct medication up to 100", func() {
		days := []adherence.Day{}
		expected := []int{33, 66, 99, 100}
		for _, score := range expected {
			days = adherence.MarkTaken(days, adherenceTest.RandomMedication(), now)
			Expect(days[0].AdherenceScore).To(Equal(score))
		}
		Expect(days[0].TakenMedications).To(HaveLen(4))
	})

	It("does not modify the caller's days", func() {
		days := adherenceTest.Days(userId, now, 3, 66)
		snapshot := deepcopy.Copy(days).([]adherence.Day)

		updated := adherence.MarkTaken(days, medication, now)
		Expect(days).To(Equal(snapshot))
		Expect(updated[0].AdherenceScore).To(Equal(99))
	})

	It("uses the calendar day of the location of now", func() {
		location := time.FixedZone("UTC-5", -5*60*60)
		late := time.Date(2024, 3, 10, 22, 0, 0, 0, location)

		days := adherence.MarkTaken(nil, medication, late)
		Expect(days[0].Date).To(Equal("2024-03-10"))
	})
})
