package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

const actorKey = "actor"

// TokenValidator resolves a bearer token to the caller it identifies.
type TokenValidator interface {
	Validate(token string) (models.Actor, error)
}

// Auth rejects requests without a valid bearer token and stores the caller in
// the echo context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperrors.Unauthorized("missing authorization header")
			}

			tokenParts := strings.SplitN(authHeader, " ", 2)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
				return apperrors.Unauthorized("invalid authorization header format")
			}

			actor, err := tokens.Validate(strings.TrimSpace(tokenParts[1]))
			if err != nil {
				return apperrors.Unauthorized("invalid or expired token")
			}

			c.Set(actorKey, actor)

			ctx := c.Request().Context()
			l := logger.FromContext(ctx, nil).With("user_id", actor.UserID.Hex())
			c.SetRequest(c.Request().WithContext(logger.NewContext(ctx, l)))
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated caller stored by Auth.
func ActorFrom(c echo.Context) (models.Actor, error) {
	actor, ok := c.Get(actorKey).(models.Actor)
	if !ok || actor.UserID.IsZero() {
		return models.Actor{}, apperrors.Unauthorized("authentication required")
	}
	return actor, nil
}

// SetActor stores actor in the context. Used by tests.
func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}
