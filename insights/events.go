package insights

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/vitals"
	"github.com/tidepool-org/healthlog/zones"
)

const (
	InsightRed   = "High - monitor closely."
	InsightAmber = "Slightly high, monitor again tomorrow."
	InsightGreen = "Returned to normal range."
)

// ZoneEvent records a change of the zone of a metric between two consecutive
// observations recording that metric.
type ZoneEvent struct {
	Metric        zones.Metric        `json:"metric" bson:"metric"`
	Zone          zones.Zone          `json:"zone" bson:"zone"`
	PreviousZone  zones.Zone          `json:"previousZone" bson:"previousZone"`
	ObservedAt    time.Time           `json:"observedAt" bson:"observedAt"`
	ObservationId *primitive.ObjectID `json:"observationId,omitempty" bson:"observationId,omitempty"`
	ValueSummary  string              `json:"valueSummary" bson:"valueSummary"`
	Insight       string              `json:"insight" bson:"insight"`
}

// Insight returns the fixed insight text of a zone.
func Insight(zone zones.Zone) string {
	switch zone {
	case zones.Red:
		return InsightRed
	case zones.Amber:
		return InsightAmber
	default:
		return InsightGreen
	}
}

// DeriveZoneEvents scans observations once and emits an event every time the zone of
// a metric differs from the last zone seen for that metric. Every metric starts Green.
// Observations must be sorted ascending by RecordedAt; the result for unsorted input
// is undefined. The result only depends on the input, so a derivation over a longer
// history reproduces the events of any prefix of it.
func DeriveZoneEvents(observations []vitals.Observation) []ZoneEvent {
	previous := make(map[zones.Metric]zones.Zone, len(zones.Metrics))
	for _, metric := range zones.Metrics {
		previous[metric] = zones.Green
	}

	events := make([]ZoneEvent, 0)
	for _, observation := range observations {
		for _, metric := range zones.Metrics {
			zone, ok := observation.Classify(metric)
			if !ok || zone == previous[metric] {
				continue
			}

			events = append(events, ZoneEvent{
				Metric:        metric,
				Zone:          zone,
				PreviousZone:  previous[metric],
				ObservedAt:    observation.RecordedAt,
				ObservationId: observation.Id,
				ValueSummary:  observation.ValueSummary(metric),
				Insight:       Insight(zone),
			})
			previous[metric] = zone
		}
	}

	return events
}
