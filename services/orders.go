package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// OrderService manages carts and the orders placed from them.
type OrderService struct {
	orders   OrderRepository
	carts    CartRepository
	products ProductReader
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderService(orders OrderRepository, carts CartRepository, products ProductReader, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, logger: logger, now: time.Now}
}

// Cart returns the user's cart.
func (s *OrderService) Cart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.carts.ForUser(ctx, userID)
}

// AddToCart adds quantity of an existing product to the user's cart.
func (s *OrderService) AddToCart(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.carts.AddItem(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.carts.ForUser(ctx, userID)
}

// RemoveFromCart drops a product from the user's cart.
func (s *OrderService) RemoveFromCart(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.carts.ForUser(ctx, userID)
}

// UpdateCartItem sets the quantity of a product already in the cart.
func (s *OrderService) UpdateCartItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	if err := s.carts.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.carts.ForUser(ctx, userID)
}

// CreateOrder turns the user's cart into a pending order priced at current
// product prices. The cart is cleared afterwards; a failure to clear it is
// only logged.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, walletAddress string) (*models.Order, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress != "" {
		if !common.IsHexAddress(walletAddress) {
			return nil, apperrors.Validation("wallet address is not a valid hex address")
		}
		walletAddress = common.HexToAddress(walletAddress).Hex()
	}

	cart, err := s.carts.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	lines := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, item := range cart.Items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.Validation(fmt.Sprintf("insufficient stock for product %s", product.Name))
		}
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	now := s.now()
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Cart:          lines,
		TotalPrice:    total,
		Status:        models.OrderStatusPending,
		WalletAddress: walletAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after order",
			slog.String("order_id", order.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}
	return order, nil
}

// GetOrder loads an order visible to actor.
func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(order.UserID) {
		return nil, apperrors.Forbidden("you cannot view this order")
	}
	return order, nil
}

// GetOrderStatus returns the payment status of an order visible to actor.
func (s *OrderService) GetOrderStatus(ctx context.Context, id primitive.ObjectID, actor models.Actor) (models.OrderStatus, error) {
	order, err := s.GetOrder(ctx, id, actor)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}
