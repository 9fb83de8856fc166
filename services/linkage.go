package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
)

// OrderLine identifies the order line a review is linked to.
type OrderLine struct {
	OrderID    primitive.ObjectID
	ProductID  primitive.ObjectID
	Index      int
	IsReviewed bool
}

// OrderLinkage checks that a review refers to a product the reviewer actually
// ordered, and flags the order line once the review is stored.
type OrderLinkage struct {
	orders       OrderRepository
	requireOwner bool
}

// NewOrderLinkage creates the validator. With requireOwner set, only the user
// who placed the order may review its products.
func NewOrderLinkage(orders OrderRepository, requireOwner bool) *OrderLinkage {
	return &OrderLinkage{orders: orders, requireOwner: requireOwner}
}

// Validate resolves the order line for productID in orderID.
func (l *OrderLinkage) Validate(ctx context.Context, orderID, productID, reviewerID primitive.ObjectID) (OrderLine, error) {
	order, err := l.orders.Get(ctx, orderID)
	if err != nil {
		return OrderLine{}, err
	}

	if l.requireOwner && order.UserID != reviewerID {
		return OrderLine{}, apperrors.Forbidden("only the buyer of this order can review its products")
	}

	idx := order.LineFor(productID)
	if idx < 0 {
		return OrderLine{}, apperrors.ProductNotInOrder(orderID.Hex(), productID.Hex())
	}

	return OrderLine{
		OrderID:    orderID,
		ProductID:  productID,
		Index:      idx,
		IsReviewed: order.Cart[idx].IsReviewed,
	}, nil
}

// MarkReviewed sets the line's isReviewed flag. The flag is never cleared.
func (l *OrderLinkage) MarkReviewed(ctx context.Context, line OrderLine) error {
	return l.orders.MarkLineReviewed(ctx, line.OrderID, line.ProductID)
}
