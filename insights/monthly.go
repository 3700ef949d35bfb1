package insights

import (
	"math"
	"sort"
	"time"

	"github.com/tidepool-org/healthlog/vitals"
	"github.com/tidepool-org/healthlog/zones"
)

const MonthKeyLayout = "2006-01"

// Means holds the per month average of each measurement. Integer measurements are
// rounded to the nearest whole number, temperature to one decimal. A nil mean means the
// measurement was not recorded that month.
type Means struct {
	Systolic        *int     `json:"systolic,omitempty" bson:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty" bson:"diastolic,omitempty"`
	HeartRate       *int     `json:"heartRate,omitempty" bson:"heartRate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Spo2            *int     `json:"spo2,omitempty" bson:"spo2,omitempty"`
	RespiratoryRate *int     `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	Glucose         *int     `json:"glucose,omitempty" bson:"glucose,omitempty"`
}

// Observation returns the means as an observation, so that they are classified and
// formatted exactly like individual samples.
func (m Means) Observation(recordedAt time.Time) vitals.Observation {
	return vitals.Observation{
		RecordedAt:      recordedAt,
		Systolic:        m.Systolic,
		Diastolic:       m.Diastolic,
		HeartRate:       m.HeartRate,
		Temperature:     m.Temperature,
		Spo2:            m.Spo2,
		RespiratoryRate: m.RespiratoryRate,
		Glucose:         m.Glucose,
	}
}

type MonthlySummary struct {
	MonthKey     string                      `json:"monthKey" bson:"monthKey"`
	AnchorDate   time.Time                   `json:"anchorDate" bson:"anchorDate"`
	Observations int                         `json:"observations" bson:"observations"`
	Means        Means                       `json:"means" bson:"means"`
	Zones        map[zones.Metric]zones.Zone `json:"zones" bson:"zones"`
	Flags        []string                    `json:"flags" bson:"flags"`
}

type flagLabels struct {
	amber string
	red   string
}

var labels = map[zones.Metric]flagLabels{
	zones.BloodPressure:   {amber: "BP Elevated", red: "BP Red risk"},
	zones.HeartRate:       {amber: "Heart Rate Elevated", red: "Heart Rate Irregularities"},
	zones.Temperature:     {amber: "Low-grade Fever", red: "Fever Episodes"},
	zones.Spo2:            {amber: "SpO2 Borderline", red: "Low SpO2"},
	zones.RespiratoryRate: {amber: "Respiratory Rate Elevated", red: "Respiratory Irregularities"},
	zones.Glucose:         {amber: "Glucose Elevated", red: "Glucose High"},
}

// FlagLabel returns the summary flag of a metric whose mean is in the zone, or an empty
// string for Green.
func FlagLabel(metric zones.Metric, zone zones.Zone) string {
	l, ok := labels[metric]
	if !ok {
		return ""
	}
	switch zone {
	case zones.Red:
		return l.red
	case zones.Amber:
		return l.amber
	default:
		return ""
	}
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a accumulator) mean() (float64, bool) {
	if a.count == 0 {
		return 0, false
	}
	return a.sum / float64(a.count), true
}

func (a accumulator) roundedInt() *int {
	mean, ok := a.mean()
	if !ok {
		return nil
	}
	rounded := int(math.Round(mean))
	return &rounded
}

func (a accumulator) roundedTenth() *float64 {
	mean, ok := a.mean()
	if !ok {
		return nil
	}
	rounded := math.Round(mean*10) / 10
	return &rounded
}

type bucket struct {
	key          string
	anchor       time.Time
	observations int
	measurements map[zones.Measurement]*accumulator
}

func newBucket(key string) *bucket {
	b := &bucket{
		key:          key,
		measurements: make(map[zones.Measurement]*accumulator, len(vitals.AllMeasurements)),
	}
	for _, m := range vitals.AllMeasurements {
		b.measurements[m] = &accumulator{}
	}
	return b
}

func (b *bucket) add(o vitals.Observation) {
	if b.observations == 0 || o.RecordedAt.After(b.anchor) {
		b.anchor = o.RecordedAt
	}
	b.observations++
	for _, m := range vitals.AllMeasurements {
		if v, ok := o.Measurement(m); ok {
			b.measurements[m].add(v)
		}
	}
}

func (b *bucket) summary() MonthlySummary {
	means := Means{
		Systolic:        b.measurements[zones.Systolic].roundedInt(),
		Diastolic:       b.measurements[zones.Diastolic].roundedInt(),
		HeartRate:       b.measurements[zones.HeartRateMeasure].roundedInt(),
		Temperature:     b.measurements[zones.TemperatureMeasure].roundedTenth(),
		Spo2:            b.measurements[zones.Spo2Measure].roundedInt(),
		RespiratoryRate: b.measurements[zones.RespiratoryRateMeasure].roundedInt(),
		Glucose:         b.measurements[zones.GlucoseMeasure].roundedInt(),
	}

	summary := MonthlySummary{
		MonthKey:     b.key,
		AnchorDate:   b.anchor,
		Observations: b.observations,
		Means:        means,
		Zones:        make(map[zones.Metric]zones.Zone),
		Flags:        make([]string, 0),
	}

	aggregate := means.Observation(b.anchor)
	for _, metric := range zones.Metrics {
		zone, ok := aggregate.Classify(metric)
		if !ok {
			continue
		}
		summary.Zones[metric] = zone
		if label := FlagLabel(metric, zone); label != "" {
			summary.Flags = append(summary.Flags, label)
		}
	}

	return summary
}

// MonthKey returns the YYYY-MM key of the calendar month (UTC) of t.
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthKeyLayout)
}

// DeriveMonthlySummaries groups observations by the UTC calendar month of RecordedAt and
// returns one summary per month with at least one observation, ordered by month. The
// input does not need to be sorted.
func DeriveMonthlySummaries(observations []vitals.Observation) []MonthlySummary {
	buckets := make(map[string]*bucket)
	for _, o := range observations {
		key := MonthKey(o.RecordedAt)
		b, ok := buckets[key]
		if !ok {
			b = newBucket(key)
			buckets[key] = b
		}
		b.add(o)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]MonthlySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, buckets[key].summary())
	}
	return summaries
}
