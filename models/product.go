package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID    primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"`
	Media       []Descriptor       `bson:"media" json:"media"`
	Reviews     []Review           `bson:"reviews" json:"reviews"`
	Ratings     float64            `bson:"ratings" json:"ratings"`
	NumReviews  int                `bson:"numReviews" json:"numReviews"`
	Version     int64              `bson:"version" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p *Product) EntityID() primitive.ObjectID    { return p.ID }
func (p *Product) OwnerID() primitive.ObjectID     { return p.SellerID }
func (p *Product) MediaList() []Descriptor         { return p.Media }
func (p *Product) SetMediaList(media []Descriptor) { p.Media = media }

func (p *Product) Prepare(now time.Time) {
	p.ID = primitive.NewObjectID()
	if p.Media == nil {
		p.Media = []Descriptor{}
	}
	p.Reviews = []Review{}
	p.Ratings = 0
	p.NumReviews = 0
	p.Version = 0
	p.CreatedAt = now
	p.UpdatedAt = now
}
