package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaKind distinguishes hosted images from videos.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is a known kind.
func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// Descriptor references one piece of externally hosted media.
type Descriptor struct {
	ExternalID string    `bson:"externalId" json:"externalId"`
	URL        string    `bson:"url" json:"url"`
	Kind       MediaKind `bson:"kind" json:"kind"`
}

// MediaEntity is a document that owns a media list: products, events, blogs.
type MediaEntity interface {
	EntityID() primitive.ObjectID
	OwnerID() primitive.ObjectID
	MediaList() []Descriptor
	SetMediaList(media []Descriptor)
	// Prepare assigns a fresh id and timestamps before the first insert.
	Prepare(now time.Time)
}
