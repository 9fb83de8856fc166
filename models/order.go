package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
)

type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Name       string             `bson:"name" json:"name"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	IsReviewed bool               `bson:"isReviewed" json:"isReviewed"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Cart          []OrderItem        `bson:"cart" json:"cart"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	Status        OrderStatus        `bson:"status" json:"status"`
	WalletAddress string             `bson:"walletAddress,omitempty" json:"walletAddress,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LineFor returns the index of the first cart line for productID, or -1.
func (o *Order) LineFor(productID primitive.ObjectID) int {
	for i, item := range o.Cart {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
