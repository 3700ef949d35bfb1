package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKeyError returns true if err, or any error it wraps, is a unique index
// violation. Concurrent upserts on the same key fail with it and can be retried.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFoundError returns true if a single document lookup matched nothing.
func IsNotFoundError(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
