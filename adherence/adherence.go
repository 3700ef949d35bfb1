// Package adherence records the medications taken each day and derives adherence streaks
// from the daily scores.
package adherence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/store"
)

const (
	CollectionName = "adherence"
	DateLayout     = "2006-01-02"

	// GoodScore is the lowest score of a day counted towards a streak.
	GoodScore          = 80
	ScorePerMedication = 33
	MaxScore           = 100
)

var (
	ErrNotFound   = fmt.Errorf("adherence day %w", errors.NotFound)
	ErrValidation = fmt.Errorf("%w: invalid medication", errors.BadRequest)
)

type TakenMedication struct {
	MedicationId   string    `json:"medicationId" bson:"medicationId"`
	MedicationName string    `json:"medicationName" bson:"medicationName"`
	Dosage         string    `json:"dosage" bson:"dosage"`
	TimeTaken      time.Time `json:"timeTaken" bson:"timeTaken"`
}

// Day is the dosing record of a single calendar day, keyed by the local date.
type Day struct {
	Id               *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserId           string              `json:"userId" bson:"userId"`
	Date             string              `json:"date" bson:"date"`
	TakenMedications []TakenMedication   `json:"takenMedications" bson:"takenMedications"`
	AdherenceScore   int                 `json:"adherenceScore" bson:"adherenceScore"`
	CreatedTime      time.Time           `json:"createdTime" bson:"createdTime"`
	ModifiedTime     time.Time           `json:"modifiedTime" bson:"modifiedTime"`
}

func (d Day) Good() bool {
	return d.AdherenceScore >= GoodScore
}

func (d Day) HasTaken(medicationId string) bool {
	for _, taken := range d.TakenMedications {
		if taken.MedicationId == medicationId {
			return true
		}
	}
	return false
}

type Medication struct {
	Id     string `json:"medicationId"`
	Name   string `json:"medicationName"`
	Dosage string `json:"dosage"`
}

func (m Medication) Validate() error {
	if m.Id == "" {
		return fmt.Errorf("%w: medication id is required", ErrValidation)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: medication name is required", ErrValidation)
	}
	return nil
}

// Streak is derived from the adherence days and never stored. Best is at least Current.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// DateKey returns the YYYY-MM-DD key of the calendar day of t in the location of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

//go:generate go tool mockgen -source=./adherence.go -destination=./test/mock_repository.go -package test

type Repository interface {
	Get(ctx context.Context, userId string, date string) (*Day, error)
	List(ctx context.Context, userId string, pagination store.Pagination) ([]Day, error)
	ListAll(ctx context.Context, userId string) ([]Day, error)
	Upsert(ctx context.Context, day Day) (*Day, error)
}

type MarkTakenResult struct {
	Day          Day    `json:"day"`
	Streak       Streak `json:"streak"`
	AlreadyTaken bool   `json:"alreadyTaken"`
}

type Service interface {
	Get(ctx context.Context, userId string, date string) (*Day, error)
	List(ctx context.Context, userId string, pagination store.Pagination) ([]Day, error)
	MarkTaken(ctx context.Context, userId string, medication Medication) (*MarkTakenResult, error)
	Streaks(ctx context.Context, userId string) (Streak, error)
}
