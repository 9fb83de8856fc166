package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("comment is required"), http.StatusBadRequest},
		{"invalid rating", InvalidRating("rating must be between 1 and 5"), http.StatusBadRequest},
		{"invalid vote", InvalidVote("sideways"), http.StatusBadRequest},
		{"invalid media", InvalidMediaFormat("missing url"), http.StatusBadRequest},
		{"not in order", ProductNotInOrder("o1", "p1"), http.StatusBadRequest},
		{"not found", NotFound("product", "p1"), http.StatusNotFound},
		{"unauthorized", Unauthorized("missing token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not the owner"), http.StatusForbidden},
		{"conflict", Conflict("busy"), http.StatusConflict},
		{"media upload", MediaUpload(errors.New("timeout")), http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"version clash", ErrVersionClash, http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestSubKindsAreValidationErrors(t *testing.T) {
	for _, err := range []error{
		InvalidRating("x"),
		InvalidVote("x"),
		InvalidMediaFormat("x"),
		ProductNotInOrder("o", "p"),
	} {
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	assert.ErrorIs(t, InvalidRating("x"), ErrInvalidRating)
	assert.NotErrorIs(t, InvalidRating("x"), ErrInvalidVote)
}

func TestMediaUploadKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(MediaUpload(cause), "create product")

	assert.ErrorIs(t, err, ErrMediaUpload)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to upload media", Message(err))
}

func TestMessage_HidesInternalCause(t *testing.T) {
	assert.Equal(t, "an internal error occurred", Message(errors.New("dial tcp: secret-host")))
	assert.Equal(t, "product with id p1 not found", Message(NotFound("product", "p1")))
}
