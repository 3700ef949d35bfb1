package vitals

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/deletions"
	"github.com/tidepool-org/healthlog/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	deletionsRepo, err := deletions.NewRepository[Observation]("observation", db, logger)
	if err != nil {
		return nil, err
	}

	repo := &repository{
		collection:    db.Collection(CollectionName),
		deletionsRepo: deletionsRepo,
		logger:        logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.Initialize(ctx); err != nil {
				return err
			}
			return repo.deletionsRepo.Initialize(ctx, []string{"userId", "_id"})
		},
	})

	return repo, nil
}

type repository struct {
	collection    *mongo.Collection
	deletionsRepo deletions.Repository[Observation]
	logger        *zap.SugaredLogger
}

// chronological is the order in which observations are returned. _id breaks ties of
// observations recorded at the same instant.
var chronological = bson.D{
	{Key: "recordedAt", Value: 1},
	{Key: "_id", Value: 1},
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "recordedAt", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().
				SetName("UserRecordedAt"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, userId string, id string) (*Observation, error) {
	selector, err := r.selector(userId, id)
	if err != nil {
		return nil, err
	}

	observation := &Observation{}
	err = r.collection.FindOne(ctx, selector).Decode(observation)
	if store.IsNotFoundError(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching observation: %w", err)
	}

	return observation, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]Observation, error) {
	opts := pagination.FindOptions().SetSort(chronological)
	return r.find(ctx, filterSelector(filter), opts)
}

func (r *repository) ListAll(ctx context.Context, userId string) ([]Observation, error) {
	opts := options.Find().SetSort(chronological)
	return r.find(ctx, bson.M{"userId": userId}, opts)
}

func (r *repository) find(ctx context.Context, selector bson.M, opts *options.FindOptions) ([]Observation, error) {
	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing observations: %w", err)
	}

	observations := make([]Observation, 0)
	if err = cursor.All(ctx, &observations); err != nil {
		return nil, fmt.Errorf("error decoding observations: %w", err)
	}

	return observations, nil
}

func (r *repository) Create(ctx context.Context, observation Observation) (*Observation, error) {
	now := time.Now().UTC()
	id := primitive.NewObjectID()
	observation.Id = &id
	observation.CreatedTime = now
	observation.ModifiedTime = now

	if _, err := r.collection.InsertOne(ctx, observation); err != nil {
		return nil, fmt.Errorf("error creating observation: %w", err)
	}

	return &observation, nil
}

func (r *repository) Update(ctx context.Context, userId string, id string, observation Observation) (*Observation, error) {
	existing, err := r.Get(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	observation.Id = existing.Id
	observation.UserId = existing.UserId
	observation.CreatedTime = existing.CreatedTime
	observation.ModifiedTime = time.Now().UTC()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	updated := &Observation{}
	err = r.collection.FindOneAndReplace(ctx, bson.M{"_id": existing.Id, "userId": existing.UserId}, observation, opts).Decode(updated)
	if store.IsNotFoundError(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error updating observation: %w", err)
	}

	return updated, nil
}

func (r *repository) Remove(ctx context.Context, userId string, id string, metadata deletions.Metadata) error {
	selector, err := r.selector(userId, id)
	if err != nil {
		return err
	}

	removed := Observation{}
	err = r.collection.FindOneAndDelete(ctx, selector).Decode(&removed)
	if store.IsNotFoundError(err) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error removing observation: %w", err)
	}

	if err := r.deletionsRepo.Create(ctx, removed, metadata); err != nil {
		r.logger.Errorw("unable to archive removed observation", "userId", userId, "id", id, zap.Error(err))
	}

	return nil
}

func (r *repository) selector(userId string, id string) (bson.M, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{
		"_id":    objId,
		"userId": userId,
	}, nil
}

func filterSelector(filter *Filter) bson.M {
	selector := bson.M{}
	if filter == nil {
		return selector
	}
	if filter.UserId != "" {
		selector["userId"] = filter.UserId
	}

	recordedAt := bson.M{}
	if filter.RecordedAtFrom != nil {
		recordedAt["$gte"] = *filter.RecordedAtFrom
	}
	if filter.RecordedAtTo != nil {
		recordedAt["$lt"] = *filter.RecordedAtTo
	}
	if len(recordedAt) > 0 {
		selector["recordedAt"] = recordedAt
	}

	return selector
}
