package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// ParseRating accepts an integer or an exactly integral number, given as a
// JSON number or a numeric string, and checks it lies in MinRating..MaxRating.
func ParseRating(v any) (int, error) {
	var f float64
	switch r := v.(type) {
	case nil:
		return 0, apperrors.InvalidRating("rating is required")
	case int:
		f = float64(r)
	case int32:
		f = float64(r)
	case int64:
		f = float64(r)
	case float64:
		f = r
	case json.Number:
		parsed, err := r.Float64()
		if err != nil {
			return 0, apperrors.InvalidRating("rating must be a number")
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return 0, apperrors.InvalidRating("rating must be a number")
		}
		f = parsed
	default:
		return 0, apperrors.InvalidRating("rating must be a number")
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, apperrors.InvalidRating("rating must be a whole number")
	}
	if f < MinRating || f > MaxRating {
		return 0, apperrors.InvalidRating("rating must be between 1 and 5")
	}
	return int(f), nil
}
