package media

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/metrics"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// uploadConcurrency bounds the fan-out of a single UploadAll call.
const uploadConcurrency = 4

var errMissingExternalID = errors.New("descriptor has no external id")

// ItemResult is the outcome of deleting one descriptor.
type ItemResult struct {
	ExternalID string           `json:"externalId"`
	Kind       models.MediaKind `json:"kind"`
	Reason     string           `json:"reason,omitempty"`
	Err        error            `json:"-"`
}

// OK reports whether the deletion succeeded.
func (r ItemResult) OK() bool { return r.Err == nil }

// DeletionReport collects per-item outcomes of a best-effort deletion.
type DeletionReport struct {
	Items []ItemResult `json:"items"`
}

// Attempted returns the number of descriptors a deletion was tried for.
func (r DeletionReport) Attempted() int { return len(r.Items) }

// Failed returns the number of descriptors that could not be deleted.
func (r DeletionReport) Failed() int {
	n := 0
	for _, it := range r.Items {
		if !it.OK() {
			n++
		}
	}
	return n
}

// Manager applies the marketplace's media lifecycle policy on top of a Store:
// uploads are fatal to the caller, deletions never are.
type Manager struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewManager creates a media manager.
func NewManager(store Store, logger *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{store: store, logger: logger, metrics: m}
}

// Upload stores one payload. Any store failure is a MediaUploadError.
func (m *Manager) Upload(ctx context.Context, p Payload) (models.Descriptor, error) {
	if !p.Kind.Valid() {
		return models.Descriptor{}, apperrors.Validation("media kind must be image or video")
	}
	if len(p.Data) == 0 && p.Source == "" {
		return models.Descriptor{}, apperrors.Validation("media payload is empty")
	}

	stored, err := m.store.Upload(ctx, p)
	if err == nil && (stored.ExternalID == "" || stored.URL == "") {
		err = errors.New("media store returned an incomplete reference")
	}
	if err != nil {
		m.metrics.MediaUploads.WithLabelValues(string(p.Kind), metrics.OutcomeError).Inc()
		m.logger.ErrorContext(ctx, "media upload failed",
			slog.String("kind", string(p.Kind)),
			slog.String("folder", p.Folder),
			slog.String("error", err.Error()),
		)
		return models.Descriptor{}, apperrors.MediaUpload(err)
	}

	m.metrics.MediaUploads.WithLabelValues(string(p.Kind), metrics.OutcomeOK).Inc()
	return models.Descriptor{ExternalID: stored.ExternalID, URL: stored.URL, Kind: p.Kind}, nil
}

// UploadAll uploads payloads concurrently and returns descriptors in input
// order. If any upload fails, the ones that succeeded are deleted again and
// the first failure is returned, so no partial result escapes.
func (m *Manager) UploadAll(ctx context.Context, payloads []Payload) ([]models.Descriptor, error) {
	out := make([]models.Descriptor, len(payloads))
	if len(payloads) == 0 {
		return out, nil
	}

	done := make([]bool, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			d, err := m.Upload(gctx, p)
			if err != nil {
				return err
			}
			out[i] = d
			done[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var uploaded []models.Descriptor
		for i, ok := range done {
			if ok {
				uploaded = append(uploaded, out[i])
			}
		}
		if len(uploaded) > 0 {
			report := m.DeleteAll(context.WithoutCancel(ctx), uploaded)
			m.logger.WarnContext(ctx, "rolled back partial media upload",
				slog.Int("uploaded", len(uploaded)),
				slog.Int("rollback_failures", report.Failed()),
			)
		}
		return nil, err
	}
	return out, nil
}

// Delete removes one descriptor from the store. Failures are logged and
// returned in the result, never as an error.
func (m *Manager) Delete(ctx context.Context, d models.Descriptor) ItemResult {
	res := ItemResult{ExternalID: d.ExternalID, Kind: d.Kind}
	if d.ExternalID == "" {
		res.Err = errMissingExternalID
	} else {
		res.Err = m.store.Destroy(ctx, d.ExternalID, d.Kind)
	}

	if res.Err != nil {
		res.Reason = res.Err.Error()
		m.metrics.MediaDeletes.WithLabelValues(string(d.Kind), metrics.OutcomeError).Inc()
		m.logger.WarnContext(ctx, "media delete failed",
			slog.String("external_id", d.ExternalID),
			slog.String("kind", string(d.Kind)),
			slog.String("error", res.Err.Error()),
		)
		return res
	}
	m.metrics.MediaDeletes.WithLabelValues(string(d.Kind), metrics.OutcomeOK).Inc()
	return res
}

// DeleteAll attempts every descriptor in order, continuing past failures.
func (m *Manager) DeleteAll(ctx context.Context, descriptors []models.Descriptor) DeletionReport {
	report := DeletionReport{Items: make([]ItemResult, 0, len(descriptors))}
	for _, d := range descriptors {
		report.Items = append(report.Items, m.Delete(ctx, d))
	}
	return report
}
