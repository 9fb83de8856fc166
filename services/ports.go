package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/media"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// ProductReader loads products.
type ProductReader interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// ProductRepository is the product persistence the review workflow needs.
type ProductRepository interface {
	ProductReader
	// SaveReviews writes reviews and aggregates conditionally on the
	// product's version, failing with apperrors.ErrVersionClash otherwise.
	SaveReviews(ctx context.Context, p *models.Product) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Insert(ctx context.Context, o *models.Order) error
	MarkLineReviewed(ctx context.Context, orderID, productID primitive.ObjectID) error
}

// PublicReviewRepository persists site reviews.
type PublicReviewRepository interface {
	Insert(ctx context.Context, r *models.PublicReview) error
	List(ctx context.Context, page, limit int) ([]models.PublicReview, int64, error)
	Increment(ctx context.Context, id primitive.ObjectID, field string) (*models.PublicReview, error)
}

// EntityRepository persists one kind of media-owning catalog entity.
type EntityRepository[T any] interface {
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, page, limit int) ([]T, int64, error)
	PushMedia(ctx context.Context, id primitive.ObjectID, media []models.Descriptor) error
}

// CartRepository persists carts.
type CartRepository interface {
	ForUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error
	SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) (*models.User, error)
}

// MediaManager uploads and deletes hosted media. *media.Manager implements it.
type MediaManager interface {
	UploadAll(ctx context.Context, payloads []media.Payload) ([]models.Descriptor, error)
	DeleteAll(ctx context.Context, descriptors []models.Descriptor) media.DeletionReport
}

// MediaReferences reports which media ids are already attached to a catalog
// entity. *database.MediaIndex implements it.
type MediaReferences interface {
	Referenced(ctx context.Context, externalIDs []string) ([]string, error)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
