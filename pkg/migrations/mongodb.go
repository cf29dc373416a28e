package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"txnsense/internal/constants"
)

// EnsureMongoIndexes creates the indexes the transaction store and merchant lookups rely
// on. The collection itself is created by the first insert.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(constants.MongoTransactionsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "merchant", Value: 1}, {Key: "updated_at", Value: -1}, {Key: "ingested_at", Value: -1}},
			Options: options.Index().
				SetName("idx_transactions_merchant_updated").
				SetPartialFilterExpression(bson.M{"category": bson.M{"$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("idx_transactions_occurred_at"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
