package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// OrderService is the cart and checkout logic behind the order routes.
type OrderService interface {
	Cart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	AddToCart(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error)
	CreateOrder(ctx context.Context, userID primitive.ObjectID, walletAddress string) (*models.Order, error)
	GetOrder(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Order, error)
	GetOrderStatus(ctx context.Context, id primitive.ObjectID, actor models.Actor) (models.OrderStatus, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// GetCart handles GET /api/cart.
func (h *OrderHandler) GetCart(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	cart, err := h.orders.Cart(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart", cart)
}

// AddToCart handles POST /api/cart.
func (h *OrderHandler) AddToCart(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return invalidID("product")
	}

	cart, err := h.orders.AddToCart(c.Request().Context(), actor.UserID, productID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart", cart)
}

// UpdateCartItem handles PUT /api/cart/:productId.
func (h *OrderHandler) UpdateCartItem(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.orders.UpdateCartItem(c.Request().Context(), actor.UserID, productID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart", cart)
}

// RemoveFromCart handles DELETE /api/cart/:productId.
func (h *OrderHandler) RemoveFromCart(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		return err
	}

	cart, err := h.orders.RemoveFromCart(c.Request().Context(), actor.UserID, productID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cart", cart)
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), actor.UserID, req.WalletAddress)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "order", order)
}

// GetOrder handles GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "order")
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "order", order)
}

// GetOrderStatus handles GET /api/orders/:id/status, polled by the checkout page.
func (h *OrderHandler) GetOrderStatus(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "order")
	if err != nil {
		return err
	}
	status, err := h.orders.GetOrderStatus(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "status", status)
}
