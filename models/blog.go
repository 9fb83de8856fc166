package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Tags      []string           `bson:"tags" json:"tags"`
	Media     []Descriptor       `bson:"media" json:"media"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Blog) EntityID() primitive.ObjectID    { return b.ID }
func (b *Blog) OwnerID() primitive.ObjectID     { return b.AuthorID }
func (b *Blog) MediaList() []Descriptor         { return b.Media }
func (b *Blog) SetMediaList(media []Descriptor) { b.Media = media }

func (b *Blog) Prepare(now time.Time) {
	b.ID = primitive.NewObjectID()
	if b.Media == nil {
		b.Media = []Descriptor{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.CreatedAt = now
	b.UpdatedAt = now
}
