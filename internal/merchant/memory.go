package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"txnsense/internal/constants"
	"txnsense/internal/storage"
	"txnsense/pkg/circuitbreaker"
)

// Memory answers "what category did this merchant get last time". Matching is exact
// and case-sensitive on the stored merchant string.
type Memory interface {
	PriorCategory(ctx context.Context, merchant string) (string, bool, error)
}

type PostgresMemory struct {
	db *sql.DB
}

func NewPostgresMemory(db *sql.DB) *PostgresMemory {
	return &PostgresMemory{db: db}
}

func (m *PostgresMemory) PriorCategory(ctx context.Context, merchant string) (string, bool, error) {
	query := `
		SELECT category
		FROM transactions
		WHERE merchant = $1 AND category <> ''
		ORDER BY updated_at DESC, ingested_at DESC
		LIMIT 1
	`

	var category string
	err := m.db.QueryRowContext(ctx, query, merchant).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query prior category: %w", err)
	}
	return category, true, nil
}

type MongoMemory struct {
	collection *mongo.Collection
}

func NewMongoMemory(db *mongo.Database) *MongoMemory {
	return &MongoMemory{collection: db.Collection(constants.MongoTransactionsCollection)}
}

func (m *MongoMemory) PriorCategory(ctx context.Context, merchant string) (string, bool, error) {
	filter := bson.M{
		"merchant": merchant,
		"category": bson.M{"$gt": ""},
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "ingested_at", Value: -1}}).
		SetProjection(bson.M{"category": 1})

	var doc struct {
		Category string `bson:"category"`
	}
	err := m.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to find prior category: %w", err)
	}
	return doc.Category, true, nil
}

// StoreMemory reads history from an in-process MemoryStore.
type StoreMemory struct {
	store *storage.MemoryStore
}

func NewStoreMemory(store *storage.MemoryStore) *StoreMemory {
	return &StoreMemory{store: store}
}

func (m *StoreMemory) PriorCategory(ctx context.Context, merchant string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	category, ok := m.store.LatestCategory(merchant)
	return category, ok, nil
}

type priorCategory struct {
	category string
	found    bool
}

type breakerMemory struct {
	next Memory
	cb   *circuitbreaker.Wrapper
}

// WithBreaker stops querying history while the store keeps failing.
func WithBreaker(next Memory, cb *circuitbreaker.Wrapper) Memory {
	return &breakerMemory{next: next, cb: cb}
}

func (m *breakerMemory) PriorCategory(ctx context.Context, merchant string) (string, bool, error) {
	result, err := circuitbreaker.Execute(ctx, m.cb, func(ctx context.Context) (priorCategory, error) {
		category, found, err := m.next.PriorCategory(ctx, merchant)
		return priorCategory{category: category, found: found}, err
	})
	if err != nil {
		return "", false, err
	}
	return result.category, result.found, nil
}

// Skippable reports whether a merchant value carries no history worth looking up.
func Skippable(merchant string) bool {
	m := strings.TrimSpace(merchant)
	return m == "" || m == constants.UnknownMerchant || m == constants.TransferMerchant
}
