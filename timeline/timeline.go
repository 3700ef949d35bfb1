// Package timeline stores the user facing feed of health events. Entries are generic:
// the packages deriving them decide their title, details and merge key.
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/healthlog/deletions"
	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/zones"
)

const CollectionName = "timeline"

var ErrNotFound = fmt.Errorf("timeline entry %w", errors.NotFound)

type Category string

const (
	CategoryZoneAlert      Category = "zone_alert"
	CategoryMonthlySummary Category = "monthly_summary"
	CategoryAdherence      Category = "adherence"
)

// Entry is a single item of the timeline. Key identifies the entry for merging, so
// that deriving the same entry twice never produces a duplicate.
type Entry struct {
	Id        *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserId    string              `json:"userId" bson:"userId"`
	Key       string              `json:"key" bson:"key"`
	Title     string              `json:"title" bson:"title"`
	Details   string              `json:"details" bson:"details"`
	Date      time.Time           `json:"date" bson:"date"`
	Category  Category            `json:"category" bson:"category"`
	RelatedId string              `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	Zone      zones.Zone          `json:"zone,omitempty" bson:"zone,omitempty"`
	Flags     []string            `json:"flags,omitempty" bson:"flags,omitempty"`

	// Replaceable entries have their content overwritten when merged again with the
	// same key. Other entries are immutable once created.
	Replaceable bool `json:"-" bson:"replaceable"`

	CreatedTime  time.Time `json:"createdTime" bson:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime" bson:"modifiedTime"`
}

// MergeResult reports the outcome of a merge. Inserted holds the entries which did not
// exist before the merge.
type MergeResult struct {
	Inserted  []Entry
	Updated   int
	Unchanged int
}

type Filter struct {
	UserId   string
	Category *Category
	DateFrom *time.Time
	DateTo   *time.Time
}

//go:generate go tool mockgen -source=./timeline.go -destination=./test/mock_repository.go -package test

type Repository interface {
	Get(ctx context.Context, userId string, id string) (*Entry, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]Entry, error)
	Merge(ctx context.Context, userId string, entries []Entry) (*MergeResult, error)
	Prune(ctx context.Context, userId string, category Category, keep []string) (int64, error)
	Remove(ctx context.Context, userId string, id string, metadata deletions.Metadata) error
}

var keyNamespace = uuid.MustParse("8f0d1c2e-5b7a-4c39-9e61-3a4f2b6d7c10")

// NewKey returns a deterministic key for an entry identified by parts.
func NewKey(userId string, category Category, parts ...string) string {
	name := userId + "|" + string(category)
	for _, p := range parts {
		name += "|" + p
	}
	return uuid.NewSHA1(keyNamespace, []byte(name)).String()
}
