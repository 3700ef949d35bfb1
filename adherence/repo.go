package adherence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueUserDate"),
		},
	})
	return err
}

var newestFirst = bson.D{{Key: "date", Value: -1}}

func (r *repository) Get(ctx context.Context, userId string, date string) (*Day, error) {
	day := &Day{}
	err := r.collection.FindOne(ctx, bson.M{"userId": userId, "date": date}).Decode(day)
	if store.IsNotFoundError(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching adherence day: %w", err)
	}
	return day, nil
}

func (r *repository) List(ctx context.Context, userId string, pagination store.Pagination) ([]Day, error) {
	opts := pagination.FindOptions().SetSort(newestFirst)
	return r.find(ctx, bson.M{"userId": userId}, opts)
}

func (r *repository) ListAll(ctx context.Context, userId string) ([]Day, error) {
	return r.find(ctx, bson.M{"userId": userId}, options.Find().SetSort(newestFirst))
}

func (r *repository) find(ctx context.Context, selector bson.M, opts *options.FindOptions) ([]Day, error) {
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing adherence days: %w", err)
	}

	days := make([]Day, 0)
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("error decoding adherence days: %w", err)
	}
	return days, nil
}

// Upsert adds the taken medications of day to the stored day of the same user and date,
// creating it when missing. Medications already stored are kept as first taken and the
// adherence score is recomputed from the stored list in the same update.
func (r *repository) Upsert(ctx context.Context, day Day) (*Day, error) {
	if _, err := time.Parse(DateLayout, day.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
	}
	if day.TakenMedications == nil {
		day.TakenMedications = []TakenMedication{}
	}

	now := time.Now().UTC()
	selector := bson.M{"userId": day.UserId, "date": day.Date}
	storedIds := bson.M{"$ifNull": bson.A{"$takenMedications.medicationId", bson.A{}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"takenMedications": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$takenMedications", bson.A{}}},
				bson.M{"$filter": bson.M{
					"input": bson.M{"$literal": day.TakenMedications},
					"cond":  bson.M{"$not": bson.A{bson.M{"$in": bson.A{"$$this.medicationId", storedIds}}}},
				}},
			}},
			"createdTime":  bson.M{"$ifNull": bson.A{"$createdTime", now}},
			"modifiedTime": now,
		}}},
		{{Key: "$set", Value: bson.M{
			"adherenceScore": bson.M{"$min": bson.A{
				MaxScore,
				bson.M{"$multiply": bson.A{
					ScorePerMedication,
					bson.M{"$size": bson.M{"$setUnion": bson.A{"$takenMedications.medicationId", bson.A{}}}},
				}},
			}},
		}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	updated := &Day{}
	err := r.collection.FindOneAndUpdate(ctx, selector, update, opts).Decode(updated)
	if store.IsDuplicateKeyError(err) && mongo.SessionFromContext(ctx) == nil {
		// Lost an upsert race with a concurrent insert of the same day
		err = r.collection.FindOneAndUpdate(ctx, selector, update, opts).Decode(updated)
	}
	if err != nil {
		return nil, fmt.Errorf("error upserting adherence day: %w", err)
	}
	return updated, nil
}
