package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in a Product. At most one exists per reviewer.
type Review struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ReviewerID primitive.ObjectID `bson:"reviewerId" json:"reviewerId"`
	Name       string             `bson:"name" json:"name"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// PublicReview is an anonymous site review with helpfulness counters.
type PublicReview struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	HelpfulUp   int                `bson:"helpfulUp" json:"helpfulUp"`
	HelpfulDown int                `bson:"helpfulDown" json:"helpfulDown"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpsertReview replaces the review written by r.ReviewerID in place, or
// appends r when that reviewer has none. The returned slice is a copy.
func UpsertReview(reviews []Review, r Review) ([]Review, bool) {
	out := make([]Review, len(reviews), len(reviews)+1)
	copy(out, reviews)
	for i := range out {
		if out[i].ReviewerID == r.ReviewerID {
			out[i].Rating = r.Rating
			out[i].Comment = r.Comment
			out[i].Name = r.Name
			out[i].CreatedAt = r.CreatedAt
			return out, true
		}
	}
	return append(out, r), false
}

// AverageRating is the mean rating of reviews, or 0 for an empty list.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
