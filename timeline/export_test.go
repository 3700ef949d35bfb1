package timeline

import (
	"context"
	"time"
)

// MergeBatch runs a single bulk upsert of entries[offset:] into result.
func MergeBatch(ctx context.Context, repo Repository, userId string, entries []Entry, offset int, now time.Time, result *MergeResult) (int, error) {
	return repo.(*repository).merge(ctx, userId, entries, offset, now, result)
}
