package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

// ReviewService is the review workflow behind the review routes.
type ReviewService interface {
	SubmitReview(ctx context.Context, in services.SubmitReviewInput) (*models.Product, error)
	ListProductReviews(ctx context.Context, productID primitive.ObjectID) (*services.ProductReviews, error)
	SubmitPublicReview(ctx context.Context, in services.PublicReviewInput) (*models.PublicReview, error)
	ListPublicReviews(ctx context.Context, page, limit int) (*services.Page[models.PublicReview], error)
	Vote(ctx context.Context, reviewID primitive.ObjectID, direction string) (*models.PublicReview, error)
}

// ProfileReader resolves the display name of a reviewer.
type ProfileReader interface {
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type ReviewHandler struct {
	reviews  ReviewService
	profiles ProfileReader
}

func NewReviewHandler(reviews ReviewService, profiles ProfileReader) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, profiles: profiles}
}

type productReviewRequest struct {
	Rating  any    `json:"rating"`
	Comment string `json:"comment"`
	OrderID string `json:"orderId" validate:"required"`
}

type publicReviewRequest struct {
	Name    string `json:"name"`
	Rating  any    `json:"rating"`
	Comment string `json:"comment"`
}

type voteRequest struct {
	Direction string `json:"direction"`
}

// SubmitProductReview handles POST /api/products/:id/reviews.
func (h *ReviewHandler) SubmitProductReview(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "id", "product")
	if err != nil {
		return err
	}

	var req productReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return invalidID("order")
	}

	ctx := c.Request().Context()
	reviewer, err := h.profiles.Profile(ctx, actor.UserID)
	if err != nil {
		return err
	}

	product, err := h.reviews.SubmitReview(ctx, services.SubmitReviewInput{
		ProductID:    productID,
		OrderID:      orderID,
		ReviewerID:   actor.UserID,
		ReviewerName: reviewer.Name,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "product", product)
}

// ListProductReviews handles GET /api/products/:id/reviews.
func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID, err := parseID(c, "id", "product")
	if err != nil {
		return err
	}
	result, err := h.reviews.ListProductReviews(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"reviews":    result.Reviews,
		"ratings":    result.Ratings,
		"numReviews": result.NumReviews,
	})
}

// SubmitPublicReview handles POST /api/reviews/public.
func (h *ReviewHandler) SubmitPublicReview(c echo.Context) error {
	var req publicReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.SubmitPublicReview(c.Request().Context(), services.PublicReviewInput{
		Name:    req.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "review", review)
}

// ListPublicReviews handles GET /api/reviews/public.
func (h *ReviewHandler) ListPublicReviews(c echo.Context) error {
	page, limit := pageParams(c)
	result, err := h.reviews.ListPublicReviews(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"reviews": result.Items,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
	})
}

// Vote handles POST /api/reviews/public/:id/vote. The direction comes from
// the body or, failing that, the ?direction= query parameter. Only "up" and
// "down" are accepted; case is not folded.
func (h *ReviewHandler) Vote(c echo.Context) error {
	id, err := parseID(c, "id", "review")
	if err != nil {
		return err
	}

	var req voteRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperrors.Validation("invalid request body")
		}
	}
	direction := strings.TrimSpace(req.Direction)
	if direction == "" {
		direction = strings.TrimSpace(c.QueryParam("direction"))
	}

	review, err := h.reviews.Vote(c.Request().Context(), id, direction)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "review", review)
}
