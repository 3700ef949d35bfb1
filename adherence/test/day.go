package test

import (
	"time"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/test"
)

// RandomMedication returns a medication with a random id, name and dosage.
func RandomMedication() adherence.Medication {
	return adherence.Medication{
		Id:     test.Faker.UUID().V4(),
		Name:   test.Faker.Lorem().Word(),
		Dosage: test.Faker.RandomStringElement([]string{"5mg", "10mg", "20mg", "1 tablet"}),
	}
}

// Day returns a day of the user with the given score and as many taken medications as
// needed to reach it.
func Day(userId string, date time.Time, score int) adherence.Day {
	day := adherence.Day{
		UserId:           userId,
		Date:             adherence.DateKey(date),
		TakenMedications: make([]adherence.TakenMedication, 0),
		AdherenceScore:   score,
	}
	for i := 0; i*adherence.ScorePerMedication < score; i++ {
		m := RandomMedication()
		day.TakenMedications = append(day.TakenMedications, adherence.TakenMedication{
			MedicationId:   m.Id,
			MedicationName: m.Name,
			Dosage:         m.Dosage,
			TimeTaken:      date,
		})
	}
	return day
}

// Days returns count consecutive days ending at last, newest first, all with the given
// score.
func Days(userId string, last time.Time, count int, score int) []adherence.Day {
	days := make([]adherence.Day, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, Day(userId, last.AddDate(0, 0, -i), score))
	}
	return days
}
