package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// Default and maximum page sizes for List.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Collection is a typed repository over one MongoDB collection. T is the
// document type; resource names it in NotFound errors.
type Collection[T any] struct {
	coll     *mongo.Collection
	resource string
	now      func() time.Time
}

// NewCollection creates a repository for the named collection.
func NewCollection[T any](db *mongo.Database, name, resource string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), resource: resource, now: time.Now}
}

// Get loads the document with the given id.
func (c *Collection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, c.mapError(err, id)
	}
	return &doc, nil
}

// Insert stores a new document.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return c.mapError(err, primitive.NilObjectID)
	}
	return nil
}

// Delete removes the document with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.mapError(err, id)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound(c.resource, id.Hex())
	}
	return nil
}

// List returns one page of documents, newest first, and the total count.
func (c *Collection[T]) List(ctx context.Context, page, limit int) ([]T, int64, error) {
	return c.find(ctx, bson.M{}, page, limit)
}

// PushMedia appends descriptors to the document's media list.
func (c *Collection[T]) PushMedia(ctx context.Context, id primitive.ObjectID, media []models.Descriptor) error {
	update := bson.M{
		"$push": bson.M{"media": bson.M{"$each": media}},
		"$set":  bson.M{"updatedAt": c.now()},
	}
	res, err := c.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return c.mapError(err, id)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound(c.resource, id.Hex())
	}
	return nil
}

func (c *Collection[T]) find(ctx context.Context, filter bson.M, page, limit int) ([]T, int64, error) {
	page, limit = Paginate(page, limit)

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", c.resource, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", c.resource, err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0, limit)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.resource, err)
	}
	return docs, total, nil
}

func (c *Collection[T]) mapError(err error, id primitive.ObjectID) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NotFound(c.resource, id.Hex())
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Conflict(fmt.Sprintf("%s already exists", c.resource))
	default:
		return fmt.Errorf("%s %s: %w", c.resource, id.Hex(), err)
	}
}

// Paginate clamps page and limit to sane values.
func Paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
