package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/pointer"
	"github.com/tidepool-org/healthlog/test"
	"github.com/tidepool-org/healthlog/vitals"
)

// RandomObservation returns an observation with every measurement recorded, with values
// spread over all zones.
func RandomObservation(userId string) vitals.Observation {
	id := primitive.NewObjectID()
	now := time.Now().UTC()
	return vitals.Observation{
		Id:              &id,
		UserId:          userId,
		RecordedAt:      test.RandomTimeBetween(now.AddDate(-1, 0, 0), now),
		Systolic:        pointer.FromAny(test.Faker.IntBetween(95, 165)),
		Diastolic:       pointer.FromAny(test.Faker.IntBetween(55, 105)),
		HeartRate:       pointer.FromAny(test.Faker.IntBetween(45, 125)),
		Temperature:     pointer.FromAny(float64(test.Faker.IntBetween(358, 392)) / 10),
		Spo2:            pointer.FromAny(test.Faker.IntBetween(88, 100)),
		RespiratoryRate: pointer.FromAny(test.Faker.IntBetween(8, 28)),
		Glucose:         pointer.FromAny(test.Faker.IntBetween(70, 220)),
		Notes:           pointer.FromAny(test.Faker.Lorem().Sentence(6)),
	}
}

// RandomSeries returns count observations for the user sorted ascending by recordedAt,
// recorded one day apart starting at start.
func RandomSeries(userId string, start time.Time, count int) []vitals.Observation {
	series := make([]vitals.Observation, 0, count)
	for i := 0; i < count; i++ {
		o := RandomObservation(userId)
		o.RecordedAt = start.AddDate(0, 0, i).UTC()
		series = append(series, o)
	}
	return series
}

// BloodPressure returns an observation recording only a blood pressure pair.
func BloodPressure(userId string, recordedAt time.Time, systolic, diastolic int) vitals.Observation {
	id := primitive.NewObjectID()
	return vitals.Observation{
		Id:         &id,
		UserId:     userId,
		RecordedAt: recordedAt,
		Systolic:   &systolic,
		Diastolic:  &diastolic,
	}
}
