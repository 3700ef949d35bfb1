package timeline

import (
	"context"
	"errors"
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
	deletionsRepo, err := deletions.NewRepository[Entry]("timeline_entry", db, logger)
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
			return repo.deletionsRepo.Initialize(ctx, []string{"userId", "key"})
		},
	})

	return repo, nil
}

type repository struct {
	collection    *mongo.Collection
	deletionsRepo deletions.Repository[Entry]
	logger        *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "key", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueUserEntryKey"),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().
				SetName("UserDate"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, userId string, id string) (*Entry, error) {
	selector, err := entrySelector(userId, id)
	if err != nil {
		return nil, err
	}

	entry := &Entry{}
	err = r.collection.FindOne(ctx, selector).Decode(entry)
	if store.IsNotFoundError(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching timeline entry: %w", err)
	}
	return entry, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]Entry, error) {
	opts := pagination.FindOptions().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filterSelector(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("error listing timeline entries: %w", err)
	}

	entries := make([]Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding timeline entries: %w", err)
	}
	return entries, nil
}

func (r *repository) Merge(ctx context.Context, userId string, entries []Entry) (*MergeResult, error) {
	if len(entries) == 0 {
		return &MergeResult{Inserted: []Entry{}}, nil
	}

	now := time.Now().UTC()
	result := &MergeResult{Inserted: make([]Entry, 0, len(entries))}
	offset, err := r.merge(ctx, userId, entries, 0, now, result)
	if store.IsDuplicateKeyError(err) && mongo.SessionFromContext(ctx) == nil {
		// A concurrent merge inserted the key at offset between our upsert lookup and insert.
		// Entries before offset are written, the remaining ones are upserted again.
		r.logger.Debugw("retrying timeline merge after duplicate key", "userId", userId, "offset", offset)
		_, err = r.merge(ctx, userId, entries, offset, now, result)
	}
	if err != nil {
		return nil, err
	}

	result.Unchanged = len(entries) - len(result.Inserted) - result.Updated
	return result, nil
}

// merge upserts entries[offset:] and accumulates the outcome into result. On a write error
// it returns the index of the failed entry. All entries before it were written.
func (r *repository) merge(ctx context.Context, userId string, entries []Entry, offset int, now time.Time, result *MergeResult) (int, error) {
	batch := entries[offset:]
	models := make([]mongo.WriteModel, 0, len(batch))
	for _, entry := range batch {
		entry.UserId = userId
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"userId": userId, "key": entry.Key}).
			SetUpdate(mergeUpdate(entry, now)).
			SetUpsert(true))
	}

	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if res != nil {
		result.Updated += int(res.ModifiedCount)
		for i, entry := range batch {
			id, ok := res.UpsertedIDs[int64(i)]
			if !ok {
				continue
			}
			if objId, ok := id.(primitive.ObjectID); ok {
				entry.Id = &objId
			}
			entry.UserId = userId
			entry.CreatedTime = now
			entry.ModifiedTime = now
			result.Inserted = append(result.Inserted, entry)
		}
	}
	if err != nil {
		failed := offset
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
			failed += bwe.WriteErrors[0].Index
		}
		return failed, fmt.Errorf("error merging timeline entries: %w", err)
	}
	return len(entries), nil
}

// mergeUpdate keeps immutable entries as first written. Replaceable entries take the new
// content, and their modifiedTime only moves when the content differs.
func mergeUpdate(entry Entry, now time.Time) any {
	content := bson.M{
		"title":    entry.Title,
		"details":  entry.Details,
		"date":     entry.Date,
		"zone":     entry.Zone,
		"flags":    entry.Flags,
		"category": entry.Category,
	}
	if entry.RelatedId != "" {
		content["relatedId"] = entry.RelatedId
	}

	if !entry.Replaceable {
		onInsert := bson.M{
			"userId":       entry.UserId,
			"key":          entry.Key,
			"replaceable":  false,
			"createdTime":  now,
			"modifiedTime": now,
		}
		for k, v := range content {
			onInsert[k] = v
		}
		return bson.M{"$setOnInsert": onInsert}
	}

	unchanged := make(bson.A, 0, len(content))
	set := bson.M{
		"userId":      entry.UserId,
		"key":         entry.Key,
		"replaceable": true,
		"createdTime": bson.M{"$ifNull": bson.A{"$createdTime", now}},
	}
	for k, v := range content {
		unchanged = append(unchanged, bson.M{"$eq": bson.A{"$" + k, bson.M{"$literal": v}}})
		set[k] = bson.M{"$literal": v}
	}
	set["modifiedTime"] = bson.M{"$cond": bson.A{bson.M{"$and": unchanged}, "$modifiedTime", now}}
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

func (r *repository) Prune(ctx context.Context, userId string, category Category, keep []string) (int64, error) {
	if keep == nil {
		keep = []string{}
	}
	selector := bson.M{
		"userId":   userId,
		"category": category,
		"key":      bson.M{"$nin": keep},
	}

	cursor, err := r.collection.Find(ctx, selector)
	if err != nil {
		return 0, fmt.Errorf("error finding stale timeline entries: %w", err)
	}
	stale := make([]Entry, 0)
	if err := cursor.All(ctx, &stale); err != nil {
		return 0, fmt.Errorf("error decoding stale timeline entries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	res, err := r.collection.DeleteMany(ctx, selector)
	if err != nil {
		return 0, fmt.Errorf("error pruning timeline entries: %w", err)
	}

	reason := "pruned"
	if err := r.deletionsRepo.CreateMany(ctx, stale, deletions.Metadata{Reason: &reason}); err != nil {
		r.logger.Errorw("unable to archive pruned timeline entries", "userId", userId, zap.Error(err))
	}
	return res.DeletedCount, nil
}

func (r *repository) Remove(ctx context.Context, userId string, id string, metadata deletions.Metadata) error {
	selector, err := entrySelector(userId, id)
	if err != nil {
		return err
	}

	removed := Entry{}
	err = r.collection.FindOneAndDelete(ctx, selector).Decode(&removed)
	if store.IsNotFoundError(err) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error removing timeline entry: %w", err)
	}

	if err := r.deletionsRepo.Create(ctx, removed, metadata); err != nil {
		r.logger.Errorw("unable to archive removed timeline entry", "userId", userId, "id", id, zap.Error(err))
	}
	return nil
}

func entrySelector(userId string, id string) (bson.M, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": objId, "userId": userId}, nil
}

func filterSelector(filter *Filter) bson.M {
	selector := bson.M{}
	if filter == nil {
		return selector
	}
	if filter.UserId != "" {
		selector["userId"] = filter.UserId
	}
	if filter.Category != nil {
		selector["category"] = *filter.Category
	}
	date := bson.M{}
	if filter.DateFrom != nil {
		date["$gte"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		date["$lt"] = *filter.DateTo
	}
	if len(date) > 0 {
		selector["date"] = date
	}
	return selector
}
