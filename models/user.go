package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"` // "-" means don't include in JSON
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID primitive.ObjectID
	Role   Role
}

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID primitive.ObjectID) bool {
	return a.Role == RoleAdmin || (!ownerID.IsZero() && a.UserID == ownerID)
}
