package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Transaction is run with a context carrying the session. Repositories called with this
// context take part in the transaction.
type Transaction = func(ctx context.Context) (any, error)

// Transactor runs a function atomically.
type Transactor interface {
	WithTransaction(ctx context.Context, txn Transaction) (any, error)
}

func NewTransactor(client *mongo.Client) Transactor {
	return &transactor{client: client}
}

// NewConfiguredTransactor returns NoTransaction when transactions are disabled.
func NewConfiguredTransactor(cfg *Config, client *mongo.Client) Transactor {
	if !cfg.Transactions {
		return NoTransaction
	}
	return NewTransactor(client)
}

type transactor struct {
	client *mongo.Client
}

func (t *transactor) WithTransaction(ctx context.Context, txn Transaction) (any, error) {
	return WithTransaction(ctx, t.client, func(sessCtx mongo.SessionContext) (any, error) {
		return txn(sessCtx)
	})
}

func WithTransaction(ctx context.Context, dbClient *mongo.Client, txn func(sessCtx mongo.SessionContext) (any, error)) (any, error) {
	session, err := dbClient.StartSession()
	if err != nil {
		return nil, fmt.Errorf("unable to start sessions %w", err)
	}
	defer session.EndSession(ctx)

	wc := writeconcern.Majority()
	rc := readconcern.Snapshot()
	txnOpts := options.Transaction().SetWriteConcern(wc).SetReadConcern(rc)
	return session.WithTransaction(ctx, txn, txnOpts)
}

// NoTransaction runs functions directly. It is used with standalone mongo deployments
// which don't support transactions, and in tests.
var NoTransaction Transactor = noTransaction{}

type noTransaction struct{}

func (noTransaction) WithTransaction(ctx context.Context, txn Transaction) (any, error) {
	return txn(ctx)
}
