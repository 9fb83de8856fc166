package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// PublicReviewStore persists site reviews.
type PublicReviewStore struct {
	*Collection[models.PublicReview]
}

// NewPublicReviewStore creates the public review repository.
func NewPublicReviewStore(db *mongo.Database) *PublicReviewStore {
	return &PublicReviewStore{Collection: NewCollection[models.PublicReview](db, PublicReviewsCollection, "review")}
}

// Increment atomically adds one to the named counter field and returns the
// updated review.
func (s *PublicReviewStore) Increment(ctx context.Context, id primitive.ObjectID, field string) (*models.PublicReview, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.PublicReview
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}}, opts).Decode(&review)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return &review, nil
}
