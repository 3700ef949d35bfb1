package zones

import (
	"fmt"
	"strconv"
)

// Classify returns the zone of a scalar metric value. Blood pressure must be classified
// with ClassifyBloodPressure.
func Classify(metric Metric, value float64) (Zone, error) {
	if metric == BloodPressure {
		return "", ErrPairRequired
	}
	m, ok := scalarMeasurements[metric]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return ClassifyMeasurement(m, value), nil
}

// ClassifyMeasurement returns the zone of a single measurement, including the systolic
// and diastolic components of blood pressure. Unknown measurements are Green.
func ClassifyMeasurement(m Measurement, value float64) Zone {
	t, ok := table[m]
	if !ok {
		return Green
	}
	return t.Classify(value)
}

// ClassifyBloodPressure returns Red if either component is Red, Amber if either
// component is Amber and Green otherwise.
func ClassifyBloodPressure(systolic, diastolic float64) Zone {
	s := ClassifyMeasurement(Systolic, systolic)
	d := ClassifyMeasurement(Diastolic, diastolic)
	switch {
	case s == Red || d == Red:
		return Red
	case s == Amber || d == Amber:
		return Amber
	default:
		return Green
	}
}

// FormatValue renders a scalar metric value with its unit, e.g. "112 bpm".
func FormatValue(metric Metric, value float64) string {
	switch metric {
	case HeartRate:
		return formatInteger(value) + " bpm"
	case Temperature:
		return strconv.FormatFloat(value, 'f', 1, 64) + " °C"
	case Spo2:
		return formatInteger(value) + "%"
	case RespiratoryRate:
		return formatInteger(value) + " breaths/min"
	case Glucose:
		return formatInteger(value) + " mg/dL"
	default:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
}

// FormatBloodPressure renders a blood pressure pair, e.g. "148/95 mmHg".
func FormatBloodPressure(systolic, diastolic float64) string {
	return formatInteger(systolic) + "/" + formatInteger(diastolic) + " mmHg"
}

func formatInteger(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
