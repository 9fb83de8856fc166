//go:build integration

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := ConnectDB(ctx, uri, "marketplace_test", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestIntegration_Repositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	t.Run("product reviews use optimistic concurrency", func(t *testing.T) {
		store := NewProductStore(db)
		p := &models.Product{Name: "lamp", SellerID: primitive.NewObjectID()}
		p.Prepare(time.Now())
		require.NoError(t, store.Insert(ctx, p))

		first, err := store.Get(ctx, p.ID)
		require.NoError(t, err)
		stale, err := store.Get(ctx, p.ID)
		require.NoError(t, err)

		first.Reviews = []models.Review{{ID: primitive.NewObjectID(), ReviewerID: primitive.NewObjectID(), Rating: 4, Comment: "ok"}}
		first.Ratings = 4
		first.NumReviews = 1
		require.NoError(t, store.SaveReviews(ctx, first))
		assert.Equal(t, int64(1), first.Version)

		stale.Reviews = []models.Review{{ID: primitive.NewObjectID(), ReviewerID: primitive.NewObjectID(), Rating: 1, Comment: "bad"}}
		err = store.SaveReviews(ctx, stale)
		assert.ErrorIs(t, err, apperrors.ErrVersionClash)

		got, err := store.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.NumReviews)
		assert.InDelta(t, 4.0, got.Ratings, 0.0001)
	})

	t.Run("concurrent review writes keep exactly one winner per version", func(t *testing.T) {
		store := NewProductStore(db)
		p := &models.Product{Name: "chair"}
		p.Prepare(time.Now())
		require.NoError(t, store.Insert(ctx, p))

		var wg sync.WaitGroup
		wins := make(chan struct{}, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cp := *p
				cp.NumReviews = 1
				if store.SaveReviews(ctx, &cp) == nil {
					wins <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(wins)
		assert.Len(t, wins, 1)
	})

	t.Run("order line is marked reviewed", func(t *testing.T) {
		store := NewOrderStore(db)
		productID := primitive.NewObjectID()
		order := &models.Order{
			ID:     primitive.NewObjectID(),
			UserID: primitive.NewObjectID(),
			Cart: []models.OrderItem{
				{ProductID: primitive.NewObjectID(), Quantity: 1},
				{ProductID: productID, Quantity: 2},
			},
			Status: models.OrderStatusPending,
		}
		require.NoError(t, store.Insert(ctx, order))

		require.NoError(t, store.MarkLineReviewed(ctx, order.ID, productID))

		got, err := store.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.False(t, got.Cart[0].IsReviewed)
		assert.True(t, got.Cart[1].IsReviewed)

		err = store.MarkLineReviewed(ctx, order.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("public review votes increment atomically", func(t *testing.T) {
		store := NewPublicReviewStore(db)
		review := &models.PublicReview{ID: primitive.NewObjectID(), Name: "ana", Rating: 5, Comment: "nice", CreatedAt: time.Now()}
		require.NoError(t, store.Insert(ctx, review))

		_, err := store.Increment(ctx, review.ID, "helpfulUp")
		require.NoError(t, err)
		got, err := store.Increment(ctx, review.ID, "helpfulUp")
		require.NoError(t, err)
		assert.Equal(t, 2, got.HelpfulUp)
		assert.Equal(t, 0, got.HelpfulDown)

		_, err = store.Increment(ctx, primitive.NewObjectID(), "helpfulUp")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("media is pushed and records are deleted", func(t *testing.T) {
		store := NewCollection[models.Blog](db, BlogsCollection, "blog")
		blog := &models.Blog{Title: "hello"}
		blog.Prepare(time.Now())
		require.NoError(t, store.Insert(ctx, blog))

		require.NoError(t, store.PushMedia(ctx, blog.ID, []models.Descriptor{{ExternalID: "a", URL: "u", Kind: models.MediaImage}}))
		got, err := store.Get(ctx, blog.ID)
		require.NoError(t, err)
		assert.Len(t, got.Media, 1)

		require.NoError(t, store.Delete(ctx, blog.ID))
		_, err = store.Get(ctx, blog.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("a media id is owned by one document", func(t *testing.T) {
		products := NewProductStore(db)
		owned := &models.Product{Name: "print", Media: []models.Descriptor{{ExternalID: "products/shared-1", URL: "u", Kind: models.MediaImage}}}
		owned.Prepare(time.Now())
		require.NoError(t, products.Insert(ctx, owned))

		bare := &models.Product{Name: "no media"}
		bare.Prepare(time.Now())
		require.NoError(t, products.Insert(ctx, bare), "empty media lists do not collide")

		used, err := NewMediaIndex(db).Referenced(ctx, []string{"fresh", "products/shared-1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"products/shared-1"}, used)

		copycat := &models.Product{Name: "copy", Media: owned.Media}
		copycat.Prepare(time.Now())
		assert.ErrorIs(t, products.Insert(ctx, copycat), apperrors.ErrConflict)
	})

	t.Run("cart merges lines and clears", func(t *testing.T) {
		store := NewCartStore(db)
		userID := primitive.NewObjectID()
		productID := primitive.NewObjectID()

		require.NoError(t, store.AddItem(ctx, userID, productID, 1))
		require.NoError(t, store.AddItem(ctx, userID, productID, 2))

		cart, err := store.ForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)

		require.NoError(t, store.Clear(ctx, userID))
		cart, err = store.ForUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		store := NewUserStore(db)
		u1 := &models.User{ID: primitive.NewObjectID(), Email: "dup@example.com", Role: models.RoleUser}
		u2 := &models.User{ID: primitive.NewObjectID(), Email: "dup@example.com", Role: models.RoleUser}
		require.NoError(t, store.Insert(ctx, u1))
		assert.ErrorIs(t, store.Insert(ctx, u2), apperrors.ErrConflict)

		found, err := store.FindByEmail(ctx, " DUP@example.com ")
		require.NoError(t, err)
		assert.Equal(t, u1.ID, found.ID)
	})
}
