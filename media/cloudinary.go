package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// CloudinaryConfig holds the account settings of a Cloudinary-compatible media API.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
}

// CloudinaryStore talks to the hosted media API over its signed REST interface.
type CloudinaryStore struct {
	cfg     CloudinaryConfig
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

type uploadResponse struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinaryStore creates a store for the configured account.
func NewCloudinaryStore(cfg CloudinaryConfig, logger *slog.Logger) *CloudinaryStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	settings := gobreaker.Settings{
		Name:        "media-store",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &CloudinaryStore{
		cfg:     cfg,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*resty.Response](settings),
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Client returns the underlying HTTP client.
func (s *CloudinaryStore) Client() *resty.Client {
	return s.client
}

// Upload sends the payload to the upload endpoint of its resource type.
func (s *CloudinaryStore) Upload(ctx context.Context, p Payload) (Stored, error) {
	params := map[string]string{
		"public_id": s.newID(),
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}
	if p.Folder != "" {
		params["folder"] = p.Folder
	}

	var result uploadResponse
	req := s.client.R().
		SetContext(ctx).
		SetFormData(s.sign(params)).
		SetResult(&result).
		SetError(&apiErrorResponse{})

	if len(p.Data) > 0 {
		filename := p.Filename
		if filename == "" {
			filename = params["public_id"]
		}
		req.SetFileReader("file", path.Base(filename), bytes.NewReader(p.Data))
	} else {
		req.SetFormData(map[string]string{"file": p.Source})
	}

	resp, err := s.execute(req, s.endpoint(p.Kind, "upload"))
	if err != nil {
		return Stored{}, fmt.Errorf("upload %s: %w", p.Kind, err)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if result.PublicID == "" || url == "" {
		return Stored{}, fmt.Errorf("upload %s: incomplete response (status %d)", p.Kind, resp.StatusCode())
	}
	return Stored{ExternalID: result.PublicID, URL: url}, nil
}

// Destroy deletes the asset. A "not found" result is reported as an error.
func (s *CloudinaryStore) Destroy(ctx context.Context, externalID string, kind models.MediaKind) error {
	params := map[string]string{
		"public_id": externalID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}

	var result destroyResponse
	req := s.client.R().
		SetContext(ctx).
		SetFormData(s.sign(params)).
		SetResult(&result).
		SetError(&apiErrorResponse{})

	if _, err := s.execute(req, s.endpoint(kind, "destroy")); err != nil {
		return fmt.Errorf("destroy %s: %w", externalID, err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("destroy %s: media store answered %q", externalID, result.Result)
	}
	return nil
}

func (s *CloudinaryStore) endpoint(kind models.MediaKind, action string) string {
	resourceType := string(kind)
	if !kind.Valid() {
		resourceType = string(models.MediaImage)
	}
	return fmt.Sprintf("/v1_1/%s/%s/%s", s.cfg.CloudName, resourceType, action)
}

// execute posts the request through the circuit breaker. Transport errors and
// 5xx responses count against the breaker; 4xx responses are returned as
// errors without tripping it.
func (s *CloudinaryStore) execute(req *resty.Request, url string) (*resty.Response, error) {
	resp, err := s.breaker.Execute(func() (*resty.Response, error) {
		resp, err := req.Post(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= 500 {
			return nil, fmt.Errorf("media store error %d: %s", resp.StatusCode(), apiMessage(resp))
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("media store unavailable: %w", err)
		}
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("media store rejected request %d: %s", resp.StatusCode(), apiMessage(resp))
	}
	return resp, nil
}

// sign adds the api key and the SHA-1 request signature to params.
func (s *CloudinaryStore) sign(params map[string]string) map[string]string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + s.cfg.APISecret))

	signed := make(map[string]string, len(params)+2)
	for k, v := range params {
		signed[k] = v
	}
	signed["api_key"] = s.cfg.APIKey
	signed["signature"] = hex.EncodeToString(sum[:])
	return signed
}

func apiMessage(resp *resty.Response) string {
	if e, ok := resp.Error().(*apiErrorResponse); ok && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(resp.String())
}
