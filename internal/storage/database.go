package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scoutloop/listingscout/internal/schema"
)

// MongoArchive writes records to a MongoDB collection.
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoArchive connects to MongoDB and prepares the target collection.
func NewMongoArchive(uri, database, collection string, logger *slog.Logger) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoArchive{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_archive"),
	}, nil
}

func (a *MongoArchive) Name() string { return "mongodb" }

func (a *MongoArchive) Store(rec *schema.Record) error {
	doc := rec.Flat()
	doc["_scraped_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}
	a.count++
	return nil
}

func (a *MongoArchive) Close() error {
	a.logger.Info("mongodb archive closing", "records", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
