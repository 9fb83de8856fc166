package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

type memoryEntry struct {
	Kind models.MediaKind
	URL  string
	Size int
}

// MemoryStore implements Store in process memory. It keeps metadata only and
// serves local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string]*memoryEntry
	baseURL string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		files:   make(map[string]*memoryEntry),
		baseURL: baseURL,
	}
}

// Upload records the payload and returns a generated id and URL.
func (s *MemoryStore) Upload(_ context.Context, p Payload) (Stored, error) {
	id := uuid.New().String()
	if p.Folder != "" {
		id = p.Folder + "/" + id
	}
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, p.Kind, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = &memoryEntry{Kind: p.Kind, URL: url, Size: len(p.Data) + len(p.Source)}

	return Stored{ExternalID: id, URL: url}, nil
}

// Destroy removes the entry, failing when it does not exist.
func (s *MemoryStore) Destroy(_ context.Context, externalID string, _ models.MediaKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[externalID]; !ok {
		return fmt.Errorf("media not found: %s", externalID)
	}
	delete(s.files, externalID)
	return nil
}

// Has reports whether externalID is stored.
func (s *MemoryStore) Has(externalID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[externalID]
	return ok
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
