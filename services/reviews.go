package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/database"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/metrics"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// SubmitReviewInput is one product review submission.
type SubmitReviewInput struct {
	ProductID    primitive.ObjectID
	OrderID      primitive.ObjectID
	ReviewerID   primitive.ObjectID
	ReviewerName string
	Rating       any
	Comment      string
}

// PublicReviewInput is one anonymous site review.
type PublicReviewInput struct {
	Name    string
	Rating  any
	Comment string
}

// ProductReviews is a product's review list with its aggregate.
type ProductReviews struct {
	ProductID  primitive.ObjectID `json:"productId"`
	Reviews    []models.Review    `json:"reviews"`
	Ratings    float64            `json:"ratings"`
	NumReviews int                `json:"numReviews"`
}

// ReviewService owns product reviews and their aggregate rating, and the
// public site reviews.
type ReviewService struct {
	products    ProductRepository
	linkage     *OrderLinkage
	public      PublicReviewRepository
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxAttempts int
	now         func() time.Time
}

// NewReviewService creates the review service. maxAttempts bounds the
// optimistic write retries of SubmitReview.
func NewReviewService(
	products ProductRepository,
	linkage *OrderLinkage,
	public PublicReviewRepository,
	logger *slog.Logger,
	m *metrics.Metrics,
	maxAttempts int,
) *ReviewService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ReviewService{
		products:    products,
		linkage:     linkage,
		public:      public,
		logger:      logger,
		metrics:     m,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// SubmitReview creates the reviewer's review of a product, or edits it in
// place when one exists, and recomputes the product rating. The order line is
// flagged afterwards; if that write fails the review stays saved and an
// unexpected error is returned together with the updated product.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*models.Product, error) {
	rating, err := ParseRating(in.Rating)
	if err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, apperrors.Validation("comment is required")
	}

	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	line, err := s.linkage.Validate(ctx, in.OrderID, in.ProductID, in.ReviewerID)
	if err != nil {
		return nil, err
	}

	edited := false
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			if product, err = s.products.Get(ctx, in.ProductID); err != nil {
				return nil, err
			}
		}

		var reviews []models.Review
		reviews, edited = models.UpsertReview(product.Reviews, models.Review{
			ID:         primitive.NewObjectID(),
			ReviewerID: in.ReviewerID,
			Name:       in.ReviewerName,
			Rating:     rating,
			Comment:    comment,
			CreatedAt:  s.now(),
		})
		product.Reviews = reviews
		product.Ratings = models.AverageRating(reviews)
		product.NumReviews = len(reviews)

		err = s.products.SaveReviews(ctx, product)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrVersionClash) {
			return nil, err
		}

		s.metrics.ReviewRetries.Inc()
		if attempt >= s.maxAttempts {
			s.logger.WarnContext(ctx, "review write kept conflicting",
				slog.String("product_id", in.ProductID.Hex()),
				slog.Int("attempts", attempt),
			)
			return nil, apperrors.Conflict("product was modified concurrently, please retry")
		}
	}

	mode := "created"
	if edited {
		mode = "edited"
	}
	s.metrics.ReviewSubmissions.WithLabelValues(mode).Inc()

	if err := s.linkage.MarkReviewed(ctx, line); err != nil {
		s.logger.ErrorContext(ctx, "review saved but order line not marked",
			slog.String("order_id", in.OrderID.Hex()),
			slog.String("product_id", in.ProductID.Hex()),
			slog.String("error", err.Error()),
		)
		return product, apperrors.Unexpected("review was saved but the order could not be marked as reviewed", err)
	}
	return product, nil
}

// ListProductReviews returns a product's reviews and aggregate rating.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID primitive.ObjectID) (*ProductReviews, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	reviews := product.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ProductReviews{
		ProductID:  product.ID,
		Reviews:    reviews,
		Ratings:    product.Ratings,
		NumReviews: product.NumReviews,
	}, nil
}

// SubmitPublicReview stores a site review. Every call appends a new review.
func (s *ReviewService) SubmitPublicReview(ctx context.Context, in PublicReviewInput) (*models.PublicReview, error) {
	name := strings.TrimSpace(in.Name)
	comment := strings.TrimSpace(in.Comment)
	if name == "" || comment == "" || in.Rating == nil {
		return nil, apperrors.Validation("name, rating and comment are required")
	}
	rating, err := ParseRating(in.Rating)
	if err != nil {
		return nil, err
	}

	review := &models.PublicReview{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	if err := s.public.Insert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListPublicReviews returns one page of site reviews, newest first.
func (s *ReviewService) ListPublicReviews(ctx context.Context, page, limit int) (*Page[models.PublicReview], error) {
	page, limit = database.Paginate(page, limit)
	items, total, err := s.public.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &Page[models.PublicReview]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Vote counts one helpfulness vote. direction must be "up" or "down".
func (s *ReviewService) Vote(ctx context.Context, reviewID primitive.ObjectID, direction string) (*models.PublicReview, error) {
	var field string
	switch direction {
	case "up":
		field = "helpfulUp"
	case "down":
		field = "helpfulDown"
	default:
		return nil, apperrors.InvalidVote(direction)
	}

	review, err := s.public.Increment(ctx, reviewID, field)
	if err != nil {
		return nil, err
	}
	s.metrics.PublicReviewVotes.WithLabelValues(direction).Inc()
	return review, nil
}
