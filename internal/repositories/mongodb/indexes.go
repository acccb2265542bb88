package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// uniqueIndexes lists the unique indexes backing the structural uniqueness
// invariants: one raffle and one ledger account per derived address, one
// certificate log per storage region, one organizer per email. The
// duplicate-key paths in the repositories rely on these existing.
func uniqueIndexes() map[string]mongo.IndexModel {
	unique := options.Index().SetUnique(true)
	return map[string]mongo.IndexModel{
		"raffles":          {Keys: bson.D{{Key: "address", Value: 1}}, Options: unique},
		"accounts":         {Keys: bson.D{{Key: "address", Value: 1}}, Options: unique},
		"certificate_logs": {Keys: bson.D{{Key: "logRef", Value: 1}}, Options: unique},
		"organizers":       {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	}
}

// EnsureIndexes creates the unique indexes at startup. Concurrent creations
// for the same identity both pass the FindOne precheck under snapshot
// isolation; the unique index turns the second insert into a duplicate-key
// error instead of a second document.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, model := range uniqueIndexes() {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
