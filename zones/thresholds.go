package zones

// Limit is a single threshold value. Inclusive limits match the value itself.
type Limit struct {
	Value     float64
	Inclusive bool
}

func (l *Limit) atOrAbove(v float64) bool {
	if l == nil {
		return false
	}
	if l.Inclusive {
		return v >= l.Value
	}
	return v > l.Value
}

func (l *Limit) atOrBelow(v float64) bool {
	if l == nil {
		return false
	}
	if l.Inclusive {
		return v <= l.Value
	}
	return v < l.Value
}

// Thresholds describes the zone bands of a single measurement. High limits trigger when
// the value is at or above them, low limits when the value is at or below them. Red
// limits take precedence over Amber limits.
type Thresholds struct {
	AmberHigh *Limit
	RedHigh   *Limit
	AmberLow  *Limit
	RedLow    *Limit
}

// Classify returns the zone of value according to the thresholds.
func (t Thresholds) Classify(value float64) Zone {
	if t.RedHigh.atOrAbove(value) || t.RedLow.atOrBelow(value) {
		return Red
	}
	if t.AmberHigh.atOrAbove(value) || t.AmberLow.atOrBelow(value) {
		return Amber
	}
	return Green
}

// Measurement identifies a single numeric field of an observation. Blood pressure is
// made of two measurements.
type Measurement string

const (
	Systolic               Measurement = "systolic"
	Diastolic              Measurement = "diastolic"
	HeartRateMeasure       Measurement = "heartRate"
	TemperatureMeasure     Measurement = "temperature"
	Spo2Measure            Measurement = "spo2"
	RespiratoryRateMeasure Measurement = "respiratoryRate"
	GlucoseMeasure         Measurement = "glucose"
)

func inclusive(v float64) *Limit {
	return &Limit{Value: v, Inclusive: true}
}

func exclusive(v float64) *Limit {
	return &Limit{Value: v}
}

// table is the only place thresholds are defined.
var table = map[Measurement]Thresholds{
	Systolic: {
		AmberHigh: inclusive(130),
		RedHigh:   inclusive(140),
	},
	Diastolic: {
		AmberHigh: inclusive(85),
		RedHigh:   inclusive(90),
	},
	HeartRateMeasure: {
		AmberHigh: inclusive(90),
		RedHigh:   inclusive(110),
		RedLow:    inclusive(50),
	},
	TemperatureMeasure: {
		AmberHigh: inclusive(37.4),
		RedHigh:   inclusive(38.0),
	},
	Spo2Measure: {
		AmberLow: exclusive(95),
		RedLow:   exclusive(92),
	},
	RespiratoryRateMeasure: {
		AmberHigh: inclusive(20),
		RedHigh:   inclusive(24),
		RedLow:    inclusive(10),
	},
	GlucoseMeasure: {
		AmberHigh: inclusive(140),
		RedHigh:   inclusive(180),
	},
}

var scalarMeasurements = map[Metric]Measurement{
	HeartRate:       HeartRateMeasure,
	Temperature:     TemperatureMeasure,
	Spo2:            Spo2Measure,
	RespiratoryRate: RespiratoryRateMeasure,
	Glucose:         GlucoseMeasure,
}

// MeasurementOf returns the measurement backing a scalar metric.
func MeasurementOf(metric Metric) (Measurement, bool) {
	m, ok := scalarMeasurements[metric]
	return m, ok
}

// Lookup returns the thresholds of a measurement.
func Lookup(m Measurement) (Thresholds, bool) {
	t, ok := table[m]
	return t, ok
}
