package handlers

import (
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

type createEventRequest struct {
	MediaFields
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	Venue       string `json:"venue" form:"venue" validate:"max=200"`
	StartsAt    string `json:"startsAt" form:"startsAt" validate:"required"`
	Capacity    int    `json:"capacity" form:"capacity" validate:"gte=0"`
}

// EventHandler serves /api/events.
type EventHandler = CatalogHandler[models.Event, *models.Event, createEventRequest, *createEventRequest]

// NewEventHandler creates the event routes. Uploaded files above maxBytes are rejected.
func NewEventHandler(svc *services.CatalogService[models.Event, *models.Event], maxBytes int64) *EventHandler {
	return NewCatalogHandler[models.Event, *models.Event, createEventRequest](svc, "event", maxBytes, buildEvent)
}

func buildEvent(req *createEventRequest, actor models.Actor) (*models.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		return nil, apperrors.Validation("startsAt must be an RFC 3339 timestamp")
	}
	return &models.Event{
		OrganizerID: actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Venue:       strings.TrimSpace(req.Venue),
		StartsAt:    startsAt.UTC(),
		Capacity:    req.Capacity,
	}, nil
}
