package vitals

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/deletions"
	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/zones"
)

const CollectionName = "vitals"

var (
	ErrNotFound   = fmt.Errorf("observation %w", errors.NotFound)
	ErrValidation = fmt.Errorf("invalid observation: %w", errors.BadRequest)
)

// Observation is a single measurement event. Every metric field is optional, an absent
// field means the metric was not recorded and is never treated as zero.
type Observation struct {
	Id         *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserId     string              `json:"userId" bson:"userId"`
	RecordedAt time.Time           `json:"recordedAt" bson:"recordedAt"`

	Systolic        *int     `json:"systolic,omitempty" bson:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty" bson:"diastolic,omitempty"`
	HeartRate       *int     `json:"heartRate,omitempty" bson:"heartRate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Spo2            *int     `json:"spo2,omitempty" bson:"spo2,omitempty"`
	RespiratoryRate *int     `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	Glucose         *int     `json:"glucose,omitempty" bson:"glucose,omitempty"`

	Notes *string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedTime  time.Time `json:"createdTime" bson:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime" bson:"modifiedTime"`
}

type Filter struct {
	UserId         string
	RecordedAtFrom *time.Time
	RecordedAtTo   *time.Time
}

//go:generate go tool mockgen -source=./vitals.go -destination=./test/mock_repository.go -package test

type Repository interface {
	Get(ctx context.Context, userId string, id string) (*Observation, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]Observation, error)
	ListAll(ctx context.Context, userId string) ([]Observation, error)
	Create(ctx context.Context, observation Observation) (*Observation, error)
	Update(ctx context.Context, userId string, id string, observation Observation) (*Observation, error)
	Remove(ctx context.Context, userId string, id string, metadata deletions.Metadata) error
}

type Service interface {
	Repository
	Patch(ctx context.Context, userId string, id string, patch []byte) (*Observation, error)
}

// Measurement returns the value of a single measurement and whether it was recorded.
func (o Observation) Measurement(m zones.Measurement) (float64, bool) {
	switch m {
	case zones.Systolic:
		return intValue(o.Systolic)
	case zones.Diastolic:
		return intValue(o.Diastolic)
	case zones.HeartRateMeasure:
		return intValue(o.HeartRate)
	case zones.TemperatureMeasure:
		if o.Temperature == nil {
			return 0, false
		}
		return *o.Temperature, true
	case zones.Spo2Measure:
		return intValue(o.Spo2)
	case zones.RespiratoryRateMeasure:
		return intValue(o.RespiratoryRate)
	case zones.GlucoseMeasure:
		return intValue(o.Glucose)
	default:
		return 0, false
	}
}

// Classify returns the zone of the metric and whether the observation has the data
// needed to classify it. Blood pressure needs both systolic and diastolic.
func (o Observation) Classify(metric zones.Metric) (zones.Zone, bool) {
	if metric == zones.BloodPressure {
		systolic, okS := o.Measurement(zones.Systolic)
		diastolic, okD := o.Measurement(zones.Diastolic)
		if !okS || !okD {
			return "", false
		}
		return zones.ClassifyBloodPressure(systolic, diastolic), true
	}

	m, ok := zones.MeasurementOf(metric)
	if !ok {
		return "", false
	}
	value, ok := o.Measurement(m)
	if !ok {
		return "", false
	}
	zone, err := zones.Classify(metric, value)
	if err != nil {
		return "", false
	}
	return zone, true
}

// ValueSummary renders the recorded value of the metric, e.g. "148/95 mmHg". It returns
// an empty string when the metric was not recorded.
func (o Observation) ValueSummary(metric zones.Metric) string {
	if metric == zones.BloodPressure {
		systolic, okS := o.Measurement(zones.Systolic)
		diastolic, okD := o.Measurement(zones.Diastolic)
		if !okS || !okD {
			return ""
		}
		return zones.FormatBloodPressure(systolic, diastolic)
	}
	m, ok := zones.MeasurementOf(metric)
	if !ok {
		return ""
	}
	value, ok := o.Measurement(m)
	if !ok {
		return ""
	}
	return zones.FormatValue(metric, value)
}

// HasMeasurements returns true if at least one metric field is recorded.
func (o Observation) HasMeasurements() bool {
	for _, m := range AllMeasurements {
		if _, ok := o.Measurement(m); ok {
			return true
		}
	}
	return false
}

// Validate checks the fields required to store an observation.
func (o Observation) Validate() error {
	if o.UserId == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if o.RecordedAt.IsZero() {
		return fmt.Errorf("%w: recordedAt is required", ErrValidation)
	}
	if !o.HasMeasurements() {
		return fmt.Errorf("%w: at least one measurement is required", ErrValidation)
	}
	for _, m := range AllMeasurements {
		if value, ok := o.Measurement(m); ok && value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, m)
		}
	}
	return nil
}

var AllMeasurements = []zones.Measurement{
	zones.Systolic,
	zones.Diastolic,
	zones.HeartRateMeasure,
	zones.TemperatureMeasure,
	zones.Spo2Measure,
	zones.RespiratoryRateMeasure,
	zones.GlucoseMeasure,
}

func intValue(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}
