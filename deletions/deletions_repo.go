package deletions

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata describes who removed a document and why.
type Metadata struct {
	DeletedByUserId *string `bson:"deletedByUserId,omitempty"`
	Reason          *string `bson:"reason,omitempty"`
}

// Repository archives removed documents of type T in a "<type>_deletions" collection,
// so that derived data can always be traced back to the records it was computed from.
type Repository[T any] interface {
	Create(context.Context, T, Metadata) error
	CreateMany(context.Context, []T, Metadata) error
	Initialize(ctx context.Context, keyAttributes []string) error
}

func NewRepository[T any](typ string, db *mongo.Database, logger *zap.SugaredLogger) (Repository[T], error) {
	if typ == "" {
		return nil, fmt.Errorf("deletions repository type is required")
	}
	return &repository[T]{
		collection:   db.Collection(CollectionName(typ)),
		logger:       logger,
		documentType: typ,
	}, nil
}

func CollectionName(typ string) string {
	return fmt.Sprintf("%s_deletions", typ)
}

type repository[T any] struct {
	collection   *mongo.Collection
	logger       *zap.SugaredLogger
	documentType string
}

func (r *repository[T]) Initialize(ctx context.Context, keyAttributes []string) error {
	keys := bson.D{}
	for _, attr := range keyAttributes {
		keys = append(keys, bson.E{Key: fmt.Sprintf("%s.%s", r.documentType, attr), Value: 1})
	}

	name := cases.Title(language.English).String(r.documentType)
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    keys,
			Options: options.Index().SetName(fmt.Sprintf("%sDeletion", name)),
		},
		{
			Keys:    append(bson.D{{Key: "deletedTime", Value: 1}}, keys...),
			Options: options.Index().SetName("DeletedTime"),
		},
	})
	return err
}

func (r *repository[T]) Create(ctx context.Context, deleted T, meta Metadata) error {
	if _, err := r.collection.InsertOne(ctx, r.document(deleted, meta, time.Now())); err != nil {
		return fmt.Errorf("error archiving deleted %s: %w", r.documentType, err)
	}
	return nil
}

func (r *repository[T]) CreateMany(ctx context.Context, deleted []T, meta Metadata) error {
	if len(deleted) == 0 {
		return nil
	}

	now := time.Now()
	documents := make([]interface{}, 0, len(deleted))
	for _, d := range deleted {
		documents = append(documents, r.document(d, meta, now))
	}

	if _, err := r.collection.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("error archiving %d deleted %s documents: %w", len(deleted), r.documentType, err)
	}
	r.logger.Debugw("archived deleted documents", "type", r.documentType, "count", len(deleted))
	return nil
}

func (r *repository[T]) document(deleted T, meta Metadata, deletedTime time.Time) bson.M {
	document := bson.M{
		"deletedTime":  deletedTime,
		r.documentType: deleted,
	}
	if meta.DeletedByUserId != nil {
		document["deletedByUserId"] = *meta.DeletedByUserId
	}
	if meta.Reason != nil {
		document["reason"] = *meta.Reason
	}
	return document
}
