package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/craffles/raffle-backend/internal/repositories"
)

// UnitOfWork implements repositories.UnitOfWork over a MongoDB session.
// Requires a replica set (or sharded cluster); standalone servers do not
// support multi-document transactions.
type UnitOfWork struct {
	client *mongo.Client
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(client *mongo.Client) repositories.UnitOfWork {
	return &UnitOfWork{client: client}
}

// WithinTransaction runs fn inside one session transaction. The session
// context flows into every repository call fn makes, so all their reads
// and writes commit or abort together.
func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := u.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessionCtx)
	})
	return err
}
