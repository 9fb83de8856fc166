package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// OrderStore persists orders.
type OrderStore struct {
	*Collection[models.Order]
}

// NewOrderStore creates the order repository.
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{Collection: NewCollection[models.Order](db, OrdersCollection, "order")}
}

// MarkLineReviewed sets isReviewed on the first cart line for productID.
// The flag is only ever set, never cleared.
func (s *OrderStore) MarkLineReviewed(ctx context.Context, orderID, productID primitive.ObjectID) error {
	filter := bson.M{"_id": orderID, "cart.productId": productID}
	update := bson.M{"$set": bson.M{
		"cart.$.isReviewed": true,
		"updatedAt":         s.now(),
	}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mark order %s reviewed: %w", orderID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("order line", orderID.Hex()+"/"+productID.Hex())
	}
	return nil
}
