package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// Item is one entry of a normalized media field. Exactly one of Source and
// Descriptor is set: Source is a URL, data URI or base64 payload still to be
// uploaded; Descriptor is media that is already hosted.
type Item struct {
	Source     string
	Descriptor *models.Descriptor
}

// Hosted reports whether the item references already uploaded media.
func (i Item) Hosted() bool {
	return i.Descriptor != nil
}

type rawDescriptor struct {
	ExternalID   string `json:"externalId"`
	PublicID     string `json:"public_id"`
	URL          string `json:"url"`
	SecureURL    string `json:"secure_url"`
	Kind         string `json:"kind"`
	ResourceType string `json:"resource_type"`
}

// Normalize turns a client-supplied images/videos field into an ordered list
// of items. Accepted shapes:
//
//	absent or null                  -> empty list
//	"http://x/1.png"                -> one upload source
//	"[{...}]" (JSON inside a string) -> descriptors; unparseable -> empty list
//	["a", "b"]                      -> upload sources
//	[{"externalId": ..., "url": ...}] -> descriptors
//
// Descriptors missing an id or url fail with invalid-media-format.
func Normalize(raw json.RawMessage, kind models.MediaKind) ([]Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Item{}, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, apperrors.InvalidMediaFormat("media field is not a valid string")
		}
		return normalizeString(s, kind)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, apperrors.InvalidMediaFormat("media field is not a valid array")
		}
		items := make([]Item, 0, len(elems))
		for i, elem := range elems {
			item, ok, err := normalizeElement(elem, kind, i)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, item)
			}
		}
		return items, nil
	case '{':
		d, err := parseDescriptor(trimmed, kind, 0)
		if err != nil {
			return nil, err
		}
		return []Item{{Descriptor: d}}, nil
	default:
		return nil, apperrors.InvalidMediaFormat("media field must be a string, an array or a descriptor object")
	}
}

func normalizeString(s string, kind models.MediaKind) ([]Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []Item{}, nil
	}
	if s[0] == '[' || s[0] == '{' {
		// Pre-structured payload; unparseable input contributes no media.
		if !json.Valid([]byte(s)) {
			return []Item{}, nil
		}
		return Normalize(json.RawMessage(s), kind)
	}
	return []Item{{Source: s}}, nil
}

func normalizeElement(elem json.RawMessage, kind models.MediaKind, index int) (Item, bool, error) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 || bytes.Equal(elem, []byte("null")) {
		return Item{}, false, nil
	}
	switch elem[0] {
	case '"':
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return Item{}, false, apperrors.InvalidMediaFormat(fmt.Sprintf("media item %d is not a valid string", index))
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Item{}, false, nil
		}
		return Item{Source: s}, true, nil
	case '{':
		d, err := parseDescriptor(elem, kind, index)
		if err != nil {
			return Item{}, false, err
		}
		return Item{Descriptor: d}, true, nil
	default:
		return Item{}, false, apperrors.InvalidMediaFormat(fmt.Sprintf("media item %d must be a string or a descriptor object", index))
	}
}

func parseDescriptor(raw json.RawMessage, kind models.MediaKind, index int) (*models.Descriptor, error) {
	var rd rawDescriptor
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, apperrors.InvalidMediaFormat(fmt.Sprintf("media item %d is not a valid descriptor", index))
	}

	d := &models.Descriptor{
		ExternalID: firstNonEmpty(rd.ExternalID, rd.PublicID),
		URL:        firstNonEmpty(rd.URL, rd.SecureURL),
		Kind:       kind,
	}
	if k := models.MediaKind(firstNonEmpty(rd.Kind, rd.ResourceType)); k.Valid() {
		d.Kind = k
	}

	if d.ExternalID == "" || d.URL == "" {
		return nil, apperrors.InvalidMediaFormat(fmt.Sprintf("media item %d requires both externalId and url", index))
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
