package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizerID primitive.ObjectID `bson:"organizerId" json:"organizerId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Venue       string             `bson:"venue" json:"venue"`
	StartsAt    time.Time          `bson:"startsAt" json:"startsAt"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	Media       []Descriptor       `bson:"media" json:"media"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (e *Event) EntityID() primitive.ObjectID    { return e.ID }
func (e *Event) OwnerID() primitive.ObjectID     { return e.OrganizerID }
func (e *Event) MediaList() []Descriptor         { return e.Media }
func (e *Event) SetMediaList(media []Descriptor) { e.Media = media }

func (e *Event) Prepare(now time.Time) {
	e.ID = primitive.NewObjectID()
	if e.Media == nil {
		e.Media = []Descriptor{}
	}
	e.CreatedAt = now
	e.UpdatedAt = now
}
