package media

import (
	"context"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// Store is a hosted media service.
type Store interface {
	// Upload stores the payload and returns its durable reference.
	Upload(ctx context.Context, p Payload) (Stored, error)

	// Destroy removes the media with the given external id.
	Destroy(ctx context.Context, externalID string, kind models.MediaKind) error
}

// Payload is one piece of media to upload. Either Data (raw bytes, usually a
// multipart file) or Source (remote URL, data URI or base64 string) is set.
type Payload struct {
	Kind     models.MediaKind
	Folder   string
	Filename string
	Data     []byte
	Source   string
}

// Stored is what the media service returns for a successful upload.
type Stored struct {
	ExternalID string
	URL        string
}
