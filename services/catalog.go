package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/database"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/media"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// MediaInput is the media supplied with a create or add-media request.
// Images and Videos are the raw JSON fields; Files are multipart uploads.
type MediaInput struct {
	Images json.RawMessage
	Videos json.RawMessage
	Files  []media.Payload
}

// CatalogService manages one kind of media-owning entity: products, events
// or blogs. PT is the pointer type implementing models.MediaEntity.
type CatalogService[T any, PT interface {
	*T
	models.MediaEntity
}] struct {
	repo     EntityRepository[T]
	media    MediaManager
	refs     MediaReferences
	resource string
	folder   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewCatalogService creates the service. Uploaded media lands in folder;
// refs is consulted before already-hosted media is attached.
func NewCatalogService[T any, PT interface {
	*T
	models.MediaEntity
}](repo EntityRepository[T], mm MediaManager, refs MediaReferences, resource, folder string, logger *slog.Logger) *CatalogService[T, PT] {
	return &CatalogService[T, PT]{
		repo:     repo,
		media:    mm,
		refs:     refs,
		resource: resource,
		folder:   folder,
		logger:   logger,
		now:      time.Now,
	}
}

// Create uploads the request's media, then inserts the entity with the
// resulting media list. If the insert fails, media uploaded by this call is
// deleted again.
func (s *CatalogService[T, PT]) Create(ctx context.Context, entity PT, in MediaInput) (PT, error) {
	descriptors, uploaded, err := s.resolveMedia(ctx, in)
	if err != nil {
		return nil, err
	}

	entity.Prepare(s.now())
	entity.SetMediaList(descriptors)

	if err := s.repo.Insert(ctx, (*T)(entity)); err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	s.logger.InfoContext(ctx, s.resource+" created",
		slog.String("id", entity.EntityID().Hex()),
		slog.Int("media", len(descriptors)),
	)
	return entity, nil
}

// AddMedia uploads the request's media and appends it to the entity.
func (s *CatalogService[T, PT]) AddMedia(ctx context.Context, id primitive.ObjectID, actor models.Actor, in MediaInput) (PT, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(entity.OwnerID()) {
		return nil, apperrors.Forbidden("you cannot modify this " + s.resource)
	}

	descriptors, uploaded, err := s.resolveMedia(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, apperrors.Validation("no media supplied")
	}

	if err := s.repo.PushMedia(ctx, id, descriptors); err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	entity.SetMediaList(append(entity.MediaList(), descriptors...))
	return entity, nil
}

// Get loads one entity.
func (s *CatalogService[T, PT]) Get(ctx context.Context, id primitive.ObjectID) (PT, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return PT(doc), nil
}

// List returns one page of entities, newest first.
func (s *CatalogService[T, PT]) List(ctx context.Context, page, limit int) (*Page[T], error) {
	page, limit = database.Paginate(page, limit)
	items, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Delete removes the entity's media, then the entity itself. Media failures
// never block the record deletion; they are only logged and reported.
func (s *CatalogService[T, PT]) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) (media.DeletionReport, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return media.DeletionReport{}, err
	}
	if !actor.CanManage(entity.OwnerID()) {
		return media.DeletionReport{}, apperrors.Forbidden("you cannot delete this " + s.resource)
	}

	report := s.media.DeleteAll(ctx, entity.MediaList())

	if err := s.repo.Delete(ctx, id); err != nil {
		return report, err
	}

	log := s.logger.InfoContext
	if report.Failed() > 0 {
		log = s.logger.WarnContext
	}
	log(ctx, s.resource+" deleted",
		slog.String("id", id.Hex()),
		slog.Int("media_attempted", report.Attempted()),
		slog.Int("media_failed", report.Failed()),
	)
	return report, nil
}

// resolveMedia normalizes both media fields, uploads everything that is not
// hosted yet and returns the full descriptor list in request order, plus the
// subset uploaded by this call.
func (s *CatalogService[T, PT]) resolveMedia(ctx context.Context, in MediaInput) ([]models.Descriptor, []models.Descriptor, error) {
	images, err := media.Normalize(in.Images, models.MediaImage)
	if err != nil {
		return nil, nil, err
	}
	videos, err := media.Normalize(in.Videos, models.MediaVideo)
	if err != nil {
		return nil, nil, err
	}

	var (
		descriptors []models.Descriptor
		hosted      []models.Descriptor
		payloads    []media.Payload
		slots       []int
	)
	add := func(items []media.Item, kind models.MediaKind) {
		for _, it := range items {
			if it.Hosted() {
				descriptors = append(descriptors, *it.Descriptor)
				hosted = append(hosted, *it.Descriptor)
				continue
			}
			slots = append(slots, len(descriptors))
			descriptors = append(descriptors, models.Descriptor{})
			payloads = append(payloads, media.Payload{Kind: kind, Folder: s.folder, Source: it.Source})
		}
	}
	add(images, models.MediaImage)
	add(videos, models.MediaVideo)
	for _, f := range in.Files {
		if f.Folder == "" {
			f.Folder = s.folder
		}
		slots = append(slots, len(descriptors))
		descriptors = append(descriptors, models.Descriptor{})
		payloads = append(payloads, f)
	}

	if err := s.checkUnclaimed(ctx, hosted); err != nil {
		return nil, nil, err
	}

	if len(payloads) == 0 {
		if descriptors == nil {
			descriptors = []models.Descriptor{}
		}
		return descriptors, nil, nil
	}

	uploaded, err := s.media.UploadAll(ctx, payloads)
	if err != nil {
		return nil, nil, err
	}
	for i, d := range uploaded {
		descriptors[slots[i]] = d
	}
	return descriptors, uploaded, nil
}

// checkUnclaimed rejects hosted media that is listed twice or already
// attached to any product, event or blog. Deleting an entity destroys its
// media, so an id may only ever belong to one entity.
func (s *CatalogService[T, PT]) checkUnclaimed(ctx context.Context, hosted []models.Descriptor) error {
	if len(hosted) == 0 {
		return nil
	}

	ids := make([]string, 0, len(hosted))
	seen := make(map[string]bool, len(hosted))
	for _, d := range hosted {
		if seen[d.ExternalID] {
			return apperrors.Conflict(fmt.Sprintf("media %s is listed more than once", d.ExternalID))
		}
		seen[d.ExternalID] = true
		ids = append(ids, d.ExternalID)
	}

	used, err := s.refs.Referenced(ctx, ids)
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return apperrors.Conflict(fmt.Sprintf("media %s is already attached to another entity", strings.Join(used, ", ")))
	}
	return nil
}

func (s *CatalogService[T, PT]) discard(ctx context.Context, uploaded []models.Descriptor) {
	if len(uploaded) == 0 {
		return
	}
	report := s.media.DeleteAll(context.WithoutCancel(ctx), uploaded)
	s.logger.WarnContext(ctx, "discarded media of failed "+s.resource+" write",
		slog.Int("uploaded", len(uploaded)),
		slog.Int("cleanup_failures", report.Failed()),
	)
}
