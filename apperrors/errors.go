package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Every AppError unwraps to one of these so callers can use
// errors.Is regardless of the message.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrMediaUpload   = errors.New("media upload failed")
	ErrInternal      = errors.New("internal error")
	ErrVersionClash  = fmt.Errorf("document modified concurrently: %w", ErrConflict)
	ErrInvalidRating = fmt.Errorf("invalid rating: %w", ErrInvalidInput)
	ErrInvalidVote   = fmt.Errorf("invalid vote: %w", ErrInvalidInput)
	ErrInvalidMedia  = fmt.Errorf("invalid media format: %w", ErrInvalidInput)
	ErrNotInOrder    = fmt.Errorf("product not in order: %w", ErrInvalidInput)
)

// Error codes carried by AppError.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidRating      = "INVALID_RATING"
	CodeInvalidVote        = "INVALID_VOTE"
	CodeInvalidMediaFormat = "invalid-media-format"
	CodeProductNotInOrder  = "PRODUCT_NOT_IN_ORDER"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeMediaUpload        = "MEDIA_UPLOAD_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an error with a stable code and an HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for a malformed or missing field.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: http.StatusBadRequest, Err: ErrInvalidInput}
}

// InvalidRating creates a 400 error for a rating outside 1..5 or not numeric.
func InvalidRating(message string) *AppError {
	return &AppError{Code: CodeInvalidRating, Message: message, Status: http.StatusBadRequest, Err: ErrInvalidRating}
}

// InvalidVote creates a 400 error for a vote direction other than up or down.
func InvalidVote(direction string) *AppError {
	return &AppError{
		Code:    CodeInvalidVote,
		Message: fmt.Sprintf("vote direction %q must be \"up\" or \"down\"", direction),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidVote,
	}
}

// InvalidMediaFormat creates a 400 error for a media descriptor missing its id or url.
func InvalidMediaFormat(message string) *AppError {
	return &AppError{Code: CodeInvalidMediaFormat, Message: message, Status: http.StatusBadRequest, Err: ErrInvalidMedia}
}

// ProductNotInOrder creates a 400 error when an order has no line for the product.
func ProductNotInOrder(orderID, productID string) *AppError {
	return &AppError{
		Code:    CodeProductNotInOrder,
		Message: fmt.Sprintf("order %s does not contain product %s", orderID, productID),
		Status:  http.StatusBadRequest,
		Err:     ErrNotInOrder,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized, Err: ErrUnauthorized}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Status: http.StatusForbidden, Err: ErrForbidden}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Status: http.StatusConflict, Err: ErrConflict}
}

// MediaUpload creates a 500 error for a failed upload to the media store.
func MediaUpload(err error) *AppError {
	return &AppError{
		Code:    CodeMediaUpload,
		Message: "failed to upload media",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrMediaUpload, err),
	}
}

// Internal creates a 500 error that hides the cause from the client.
func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "an internal error occurred", Status: http.StatusInternalServerError, Err: err}
}

// Unexpected creates a 500 error with a client-visible message.
func Unexpected(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-visible message for err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource was modified concurrently"
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	default:
		return "an internal error occurred"
	}
}
