package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
)

// respond writes the success envelope {"success": true, key: value}.
func respond(c echo.Context, status int, key string, value any) error {
	return c.JSON(status, map[string]any{
		"success": true,
		key:       value,
	})
}

// ErrorHandler renders every error as {"success": false, "message": ...} with
// the status mapped from its kind. Server errors are logged.
func ErrorHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperrors.HTTPStatus(err)
		message := apperrors.Message(err)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
		}

		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context(), base).Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, map[string]any{
				"success": false,
				"message": message,
			})
		}
		if err != nil {
			base.Error("failed to write error response", slog.String("error", err.Error()))
		}
	}
}

func parseID(c echo.Context, param, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, invalidID(resource)
	}
	return id, nil
}

func invalidID(resource string) error {
	return apperrors.Validation("invalid " + resource + " id")
}

// pageParams reads ?page= and ?limit=, leaving clamping to the services.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return c.Validate(req)
}
