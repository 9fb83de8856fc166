package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mediaCollections are the collections whose documents own a media list.
var mediaCollections = []string{ProductsCollection, EventsCollection, BlogsCollection}

// MediaIndex answers which media ids are already attached to a product,
// event or blog.
type MediaIndex struct {
	colls []*mongo.Collection
}

func NewMediaIndex(db *mongo.Database) *MediaIndex {
	colls := make([]*mongo.Collection, 0, len(mediaCollections))
	for _, name := range mediaCollections {
		colls = append(colls, db.Collection(name))
	}
	return &MediaIndex{colls: colls}
}

// Referenced returns the subset of externalIDs found in any media list, in
// the order they were asked for.
func (m *MediaIndex) Referenced(ctx context.Context, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	found := make(map[string]bool)
	filter := bson.M{"media.externalId": bson.M{"$in": externalIDs}}
	for _, coll := range m.colls {
		values, err := coll.Distinct(ctx, "media.externalId", filter)
		if err != nil {
			return nil, fmt.Errorf("look up media references in %s: %w", coll.Name(), err)
		}
		for _, v := range values {
			if id, ok := v.(string); ok {
				found[id] = true
			}
		}
	}

	var used []string
	for _, id := range externalIDs {
		if found[id] {
			used = append(used, id)
			delete(found, id)
		}
	}
	return used, nil
}
