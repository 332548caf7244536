package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyplatform/config"
)

const (
	CommentsCollection = "comments"
	EventsCollection   = "activity_events"
)

// NewMongoDatabase connects the mongo client and returns the database handle.
// Disconnect the returned client on shutdown.
func NewMongoDatabase(ctx context.Context, cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(cfg.MongoDB), nil
}
