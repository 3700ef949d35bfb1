// Package outbox persists events that are delivered to other services asynchronously.
// Writing the event next to the state change that produced it lets a separate relay
// publish it at least once.
package outbox

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/zones"
)

const CollectionName = "outbox"

type EventType string

const (
	EventTypeSendZoneAlert EventType = "sendZoneAlert"
)

type Event struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty"`
	EventType   EventType           `bson:"eventType"`
	UserId      string              `bson:"userId"`
	CreatedTime time.Time           `bson:"createdTime"`
	Payload     bson.Raw            `bson:"payload"`
}

// ZoneAlertPayload is the payload of sendZoneAlert events, enqueued when a vital moves
// into the red zone.
type ZoneAlertPayload struct {
	UserId       string       `bson:"userId"`
	EntryId      string       `bson:"entryId,omitempty"`
	Metric       zones.Metric `bson:"metric"`
	Zone         zones.Zone   `bson:"zone"`
	ValueSummary string       `bson:"valueSummary"`
	Insight      string       `bson:"insight"`
	ObservedAt   time.Time    `bson:"observedAt"`
}

//go:generate go tool mockgen -source=./outbox.go -destination=./test/mock_outbox.go -package test

type Repository interface {
	Create(ctx context.Context, event Event) error
	CreateMany(ctx context.Context, events []Event) error
	List(ctx context.Context, eventType EventType, since time.Time, limit int64) ([]Event, error)
	Initialize(ctx context.Context) error
}

// NewEvent creates an Event from a typed payload
func NewEvent(eventType EventType, userId string, payload interface{}) (Event, error) {
	raw, err := bson.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("error marshaling outbox event payload: %w", err)
	}

	return Event{
		EventType:   eventType,
		UserId:      userId,
		CreatedTime: time.Now().UTC(),
		Payload:     bson.Raw(raw),
	}, nil
}

// NewZoneAlertEvent creates a sendZoneAlert event
func NewZoneAlertEvent(payload ZoneAlertPayload) (Event, error) {
	return NewEvent(EventTypeSendZoneAlert, payload.UserId, payload)
}
