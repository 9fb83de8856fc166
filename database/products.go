package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// ProductStore persists products, including their embedded reviews.
type ProductStore struct {
	*Collection[models.Product]
}

// NewProductStore creates the product repository.
func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{Collection: NewCollection[models.Product](db, ProductsCollection, "product")}
}

// SaveReviews writes p's review list and aggregates if the stored version
// still equals p.Version, and bumps the version. A concurrent write makes it
// fail with ErrVersionClash.
func (s *ProductStore) SaveReviews(ctx context.Context, p *models.Product) error {
	filter := bson.M{"_id": p.ID, "version": p.Version}
	if p.Version == 0 {
		// Documents written before versioning carry no version field.
		filter = bson.M{
			"_id": p.ID,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}

	now := s.now()
	update := bson.M{
		"$set": bson.M{
			"reviews":    p.Reviews,
			"ratings":    p.Ratings,
			"numReviews": p.NumReviews,
			"updatedAt":  now,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("save reviews of product %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", p.ID.Hex(), apperrors.ErrVersionClash)
	}

	p.Version++
	p.UpdatedAt = now
	return nil
}
