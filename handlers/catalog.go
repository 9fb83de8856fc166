package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/media"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

// MediaFields are the media inputs every create request accepts. In JSON
// bodies they may be a string, an array or a JSON-encoded string; in
// multipart bodies they are plain form values next to file parts of the same
// name.
type MediaFields struct {
	Images json.RawMessage `json:"images" form:"-"`
	Videos json.RawMessage `json:"videos" form:"-"`
}

func (m *MediaFields) mediaFields() *MediaFields { return m }

type mediaRequest interface {
	mediaFields() *MediaFields
}

// fileParts lists the multipart file fields in upload order.
var fileParts = []struct {
	field string
	kind  models.MediaKind
}{
	{"images", models.MediaImage},
	{"videos", models.MediaVideo},
}

// CatalogHandler serves the shared create, list, read, add-media and delete
// routes of products, events and blogs. R is the create request type; build
// turns a bound request into a new entity owned by the caller.
type CatalogHandler[T any, PT interface {
	*T
	models.MediaEntity
}, R any, PR interface {
	*R
	mediaRequest
}] struct {
	svc      *services.CatalogService[T, PT]
	key      string
	maxBytes int64
	build    func(req PR, actor models.Actor) (PT, error)
}

// NewCatalogHandler creates a handler responding under key ("product", ...).
func NewCatalogHandler[T any, PT interface {
	*T
	models.MediaEntity
}, R any, PR interface {
	*R
	mediaRequest
}](svc *services.CatalogService[T, PT], key string, maxBytes int64, build func(req PR, actor models.Actor) (PT, error)) *CatalogHandler[T, PT, R, PR] {
	return &CatalogHandler[T, PT, R, PR]{svc: svc, key: key, maxBytes: maxBytes, build: build}
}

// Create handles POST /api/{kind}s with a JSON or multipart body.
func (h *CatalogHandler[T, PT, R, PR]) Create(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	req := PR(new(R))
	in, err := h.bindMedia(c, req)
	if err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	entity, err := h.build(req, actor)
	if err != nil {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), entity, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, h.key, created)
}

// AddMedia handles POST /api/{kind}s/:id/media.
func (h *CatalogHandler[T, PT, R, PR]) AddMedia(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", h.key)
	if err != nil {
		return err
	}

	in, err := h.bindMedia(c, &struct{ MediaFields }{})
	if err != nil {
		return err
	}

	updated, err := h.svc.AddMedia(c.Request().Context(), id, actor, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.key, updated)
}

// Get handles GET /api/{kind}s/:id.
func (h *CatalogHandler[T, PT, R, PR]) Get(c echo.Context) error {
	id, err := parseID(c, "id", h.key)
	if err != nil {
		return err
	}
	entity, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.key, entity)
}

// List handles GET /api/{kind}s.
func (h *CatalogHandler[T, PT, R, PR]) List(c echo.Context) error {
	page, limit := pageParams(c)
	result, err := h.svc.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		h.key + "s": result.Items,
		"total":     result.Total,
		"page":      result.Page,
		"limit":     result.Limit,
	})
}

// Delete handles DELETE /api/{kind}s/:id. Media that could not be removed is
// listed in the response but does not fail the request.
func (h *CatalogHandler[T, PT, R, PR]) Delete(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", h.key)
	if err != nil {
		return err
	}

	report, err := h.svc.Delete(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": h.key + " deleted",
		"media":   report,
	})
}

// bindMedia binds req from the body and extracts its media input.
func (h *CatalogHandler[T, PT, R, PR]) bindMedia(c echo.Context, req mediaRequest) (services.MediaInput, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		if err := c.Bind(req); err != nil {
			return services.MediaInput{}, apperrors.Validation("invalid request body")
		}
		fields := req.mediaFields()
		return services.MediaInput{Images: fields.Images, Videos: fields.Videos}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return services.MediaInput{}, apperrors.Validation("invalid multipart body")
	}
	if err := c.Bind(req); err != nil {
		return services.MediaInput{}, apperrors.Validation("invalid request body")
	}

	in := services.MediaInput{
		Images: formValueJSON(form, "images"),
		Videos: formValueJSON(form, "videos"),
	}
	for _, part := range fileParts {
		for _, fh := range form.File[part.field] {
			p, err := h.readFile(fh, part.kind)
			if err != nil {
				return services.MediaInput{}, err
			}
			in.Files = append(in.Files, p)
		}
	}
	return in, nil
}

func (h *CatalogHandler[T, PT, R, PR]) readFile(fh *multipart.FileHeader, kind models.MediaKind) (media.Payload, error) {
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return media.Payload{}, apperrors.Validation(fmt.Sprintf("file %s exceeds %d bytes", fh.Filename, h.maxBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return media.Payload{}, apperrors.Validation("cannot read uploaded file " + fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return media.Payload{}, apperrors.Validation("cannot read uploaded file " + fh.Filename)
	}
	if len(data) == 0 {
		return media.Payload{}, apperrors.Validation("uploaded file " + fh.Filename + " is empty")
	}
	return media.Payload{Kind: kind, Filename: fh.Filename, Data: data}, nil
}

// formValueJSON encodes the text values of a multipart field as JSON, so
// they go through the same normalization as JSON bodies.
func formValueJSON(form *multipart.Form, field string) json.RawMessage {
	values := form.Value[field]
	switch len(values) {
	case 0:
		return nil
	case 1:
		raw, _ := json.Marshal(values[0])
		return raw
	default:
		raw, _ := json.Marshal(values)
		return raw
	}
}
