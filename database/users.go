package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// UserStore persists accounts.
type UserStore struct {
	*Collection[models.User]
}

// NewUserStore creates the user repository.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{Collection: NewCollection[models.User](db, UsersCollection, "user")}
}

// FindByEmail loads the account registered under email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// UpdateName changes the display name and returns the updated account.
func (s *UserStore) UpdateName(ctx context.Context, id primitive.ObjectID, name string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": s.now()}}

	var user models.User
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, s.mapError(err, id)
	}
	return &user, nil
}
