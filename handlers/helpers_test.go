package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/utils"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = utils.NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(logger.Discard())
	return e
}

type call struct {
	handler echo.HandlerFunc
	req     *http.Request
	actor   *models.Actor
	params  map[string]string
}

// serve runs one handler the way the router would, rendering returned errors
// through the error handler.
func serve(e *echo.Echo, cl call) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := e.NewContext(cl.req, rec)
	if len(cl.params) > 0 {
		var names, values []string
		for name, value := range cl.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if cl.actor != nil {
		middleware.SetActor(c, *cl.actor)
	}
	if err := cl.handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func newActor(role models.Role) *models.Actor {
	return &models.Actor{UserID: primitive.NewObjectID(), Role: role}
}

// memRepo is an in-memory catalog repository.
type memRepo[T any, PT interface {
	*T
	models.MediaEntity
}] struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]T
}

func newMemRepo[T any, PT interface {
	*T
	models.MediaEntity
}]() *memRepo[T, PT] {
	return &memRepo[T, PT]{docs: map[primitive.ObjectID]T{}}
}

func (r *memRepo[T, PT]) Get(_ context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperrors.NotFound("entity", id.Hex())
	}
	return &doc, nil
}

func (r *memRepo[T, PT]) Insert(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[PT(doc).EntityID()] = *doc
	return nil
}

func (r *memRepo[T, PT]) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return apperrors.NotFound("entity", id.Hex())
	}
	delete(r.docs, id)
	return nil
}

func (r *memRepo[T, PT]) List(_ context.Context, _, _ int) ([]T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo[T, PT]) Referenced(_ context.Context, externalIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attached := make(map[string]bool)
	for _, doc := range r.docs {
		for _, d := range PT(&doc).MediaList() {
			attached[d.ExternalID] = true
		}
	}
	var used []string
	for _, id := range externalIDs {
		if attached[id] {
			used = append(used, id)
		}
	}
	return used, nil
}

func (r *memRepo[T, PT]) PushMedia(_ context.Context, id primitive.ObjectID, media []models.Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return apperrors.NotFound("entity", id.Hex())
	}
	PT(&doc).SetMediaList(append(PT(&doc).MediaList(), media...))
	r.docs[id] = doc
	return nil
}
