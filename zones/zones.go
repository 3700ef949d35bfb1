// Package zones classifies vital sign values into Green, Amber or Red severity zones
// using a fixed threshold table. The same table backs both per-sample classification
// and classification of aggregated (mean) values.
package zones

import (
	"errors"
	"fmt"
)

type Zone string

const (
	Green Zone = "green"
	Amber Zone = "amber"
	Red   Zone = "red"
)

// Rank orders zones for display only.
func (z Zone) Rank() int {
	switch z {
	case Green:
		return 0
	case Amber:
		return 1
	case Red:
		return 2
	default:
		return -1
	}
}

func (z Zone) Valid() bool {
	return z.Rank() >= 0
}

type Metric string

const (
	BloodPressure   Metric = "bloodPressure"
	HeartRate       Metric = "heartRate"
	Temperature     Metric = "temperature"
	Spo2            Metric = "spo2"
	RespiratoryRate Metric = "respiratoryRate"
	Glucose         Metric = "glucose"
)

// Metrics lists every metric in the order used for events and summary flags.
var Metrics = []Metric{
	BloodPressure,
	HeartRate,
	Temperature,
	Spo2,
	RespiratoryRate,
	Glucose,
}

func (m Metric) Valid() bool {
	for _, metric := range Metrics {
		if m == metric {
			return true
		}
	}
	return false
}

// DisplayName is the human readable name of the metric.
func (m Metric) DisplayName() string {
	switch m {
	case BloodPressure:
		return "Blood pressure"
	case HeartRate:
		return "Heart rate"
	case Temperature:
		return "Temperature"
	case Spo2:
		return "SpO2"
	case RespiratoryRate:
		return "Respiratory rate"
	case Glucose:
		return "Glucose"
	default:
		return string(m)
	}
}

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrPairRequired  = errors.New("blood pressure requires a systolic and diastolic pair")
)

// ParseMetric returns the metric with the given name.
func ParseMetric(name string) (Metric, error) {
	m := Metric(name)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}
