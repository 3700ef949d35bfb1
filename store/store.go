package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ContextTimeout = time.Duration(20) * time.Second
)

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

type Pagination struct {
	Offset int
	Limit  int
}

func DefaultPagination() Pagination {
	return Pagination{
		Offset: 0,
		Limit:  DefaultLimit,
	}
}

func (p Pagination) WithLimit(limit int) Pagination {
	p.Limit = limit
	return p
}

func (p Pagination) WithOffset(offset int) Pagination {
	p.Offset = offset
	return p
}

// Normalize clamps the pagination to the supported range.
func (p Pagination) Normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// FindOptions applies skip and limit of the pagination to mongo find options.
func (p Pagination) FindOptions() *options.FindOptions {
	p = p.Normalize()
	return options.Find().
		SetSkip(int64(p.Offset)).
		SetLimit(int64(p.Limit))
}

type Sort struct {
	Attribute string
	Ascending bool
}

func (s *Sort) Order() int {
	if s.Ascending {
		return 1
	}
	return -1
}

func NewDbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ContextTimeout)
}
