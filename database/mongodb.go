package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	ProductsCollection      = "products"
	EventsCollection        = "events"
	BlogsCollection         = "blogs"
	OrdersCollection        = "orders"
	CartsCollection         = "carts"
	UsersCollection         = "users"
	PublicReviewsCollection = "publicreviews"
)

// ConnectDB opens a client, pings the server and returns the named database.
func ConnectDB(ctx context.Context, uri, name string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb", slog.String("database", name))
	return client, client.Database(name), nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "sellerId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		PublicReviewsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	// A media id belongs to one document. Documents without media are left
	// out of the index so empty lists do not collide.
	mediaIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "media.externalId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"media.externalId": bson.M{"$exists": true}}),
	}
	for _, name := range mediaCollections {
		indexes[name] = append(indexes[name], mediaIndex)
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
