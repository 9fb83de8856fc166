package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// CartStore persists one cart per user.
type CartStore struct {
	*Collection[models.Cart]
}

// NewCartStore creates the cart repository.
func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{Collection: NewCollection[models.Cart](db, CartsCollection, "cart")}
}

// ForUser returns the user's cart, or an empty one when none is stored.
func (s *CartStore) ForUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &cart, nil
}

// AddItem adds quantity of productID, merging with an existing line.
func (s *CartStore) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	now := s.now()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{
			"$inc": bson.M{"items.$.quantity": quantity},
			"$set": bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$push":        bson.M{"items": models.CartItem{ProductID: productID, Quantity: quantity}},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// RemoveItem drops every line for productID.
func (s *CartStore) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": s.now()},
		},
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Clear deletes the user's cart.
func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// SetQuantity overwrites the quantity of the line for productID.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	update := bson.M{"$set": bson.M{
		"items.$[elem].quantity": quantity,
		"updatedAt":              s.now(),
	}}
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.productId": productID}},
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		update,
		options.Update().SetArrayFilters(arrayFilters),
	)
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("cart item", productID.Hex())
	}
	return nil
}
