package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// RemoteConfig configures the REST remote store client.
type RemoteConfig struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type restRemoteStore struct {
	client  *resty.Client
	baseURL string
	anonKey string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewRemoteStore constructs the REST [RemoteStore] implementation.
func NewRemoteStore(cfg RemoteConfig) RemoteStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	cli := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.AnonKey)

	return &restRemoteStore{client: cli, baseURL: base, anonKey: cfg.AnonKey, timeout: cfg.Timeout}
}

func (r *restRemoteStore) SetSession(accessToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = strings.TrimSpace(accessToken)
}

func (r *restRemoteStore) session() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

// ── auth ─────────────────────────────────────────────────────────────────────

type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (r *restRemoteStore) SignIn(ctx context.Context, email, password string) (models.SharedCredential, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/auth/v1/token?grant_type=password")
	if err != nil {
		return models.SharedCredential{}, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SharedCredential{}, err
	}

	return r.storeAuthResponse(resp.Body())
}

func (r *restRemoteStore) RefreshSession(ctx context.Context, refreshToken string) (models.SharedCredential, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/auth/v1/token?grant_type=refresh_token")
	if err != nil {
		return models.SharedCredential{}, fmt.Errorf("refresh session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SharedCredential{}, err
	}

	return r.storeAuthResponse(resp.Body())
}

func (r *restRemoteStore) storeAuthResponse(body []byte) (models.SharedCredential, error) {
	var ar authResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return models.SharedCredential{}, fmt.Errorf("decode auth response: %w", err)
	}

	cred := models.SharedCredential{
		UserID:       ar.User.ID,
		AccessToken:  ar.AccessToken,
		RefreshToken: ar.RefreshToken,
	}
	r.SetSession(cred.AccessToken)
	return cred, nil
}

// ── items ────────────────────────────────────────────────────────────────────

func (r *restRemoteStore) ListItems(ctx context.Context, userID string) ([]models.Item, error) {
	resp, err := r.authedRequest(ctx).
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("order", "created_at.desc").
		Get("/rest/v1/items")
	if err != nil {
		return nil, fmt.Errorf("list items request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.Item
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode items response: %w", err)
	}
	return items, nil
}

func (r *restRemoteStore) FindItemByURL(ctx context.Context, userID, itemURL string) (*models.Item, error) {
	resp, err := r.authedRequest(ctx).
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("url", "eq."+itemURL).
		SetQueryParam("is_deleted", "eq.false").
		SetQueryParam("limit", "1").
		Get("/rest/v1/items")
	if err != nil {
		return nil, fmt.Errorf("find item by url request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.Item
	if err = json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode item lookup response: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *restRemoteStore) InsertItem(ctx context.Context, item models.Item) error {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody([]models.Item{item}).
		Post("/rest/v1/items")
	if err != nil {
		return fmt.Errorf("insert item request: %w", err)
	}

	return mapHTTPError(resp)
}

func (r *restRemoteStore) UpdateItem(ctx context.Context, item models.Item) error {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetQueryParam("id", "eq."+item.ID).
		SetBody(item).
		Patch("/rest/v1/items")
	if err != nil {
		return fmt.Errorf("update item request: %w", err)
	}

	return mapHTTPError(resp)
}

// ── spaces ───────────────────────────────────────────────────────────────────

func (r *restRemoteStore) ListSpaces(ctx context.Context, userID string) ([]models.Space, error) {
	resp, err := r.authedRequest(ctx).
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("order", "order_index.asc").
		Get("/rest/v1/spaces")
	if err != nil {
		return nil, fmt.Errorf("list spaces request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var spaces []models.Space
	if err = json.Unmarshal(resp.Body(), &spaces); err != nil {
		return nil, fmt.Errorf("decode spaces response: %w", err)
	}
	return spaces, nil
}

func (r *restRemoteStore) InsertSpace(ctx context.Context, space models.Space) error {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody([]models.Space{space}).
		Post("/rest/v1/spaces")
	if err != nil {
		return fmt.Errorf("insert space request: %w", err)
	}

	return mapHTTPError(resp)
}

func (r *restRemoteStore) UpdateSpace(ctx context.Context, space models.Space) error {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetQueryParam("id", "eq."+space.ID).
		SetBody(space).
		Patch("/rest/v1/spaces")
	if err != nil {
		return fmt.Errorf("update space request: %w", err)
	}

	return mapHTTPError(resp)
}

func (r *restRemoteStore) UpsertSpaces(ctx context.Context, spaces []models.Space) error {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetBody(spaces).
		Post("/rest/v1/spaces")
	if err != nil {
		return fmt.Errorf("upsert spaces request: %w", err)
	}

	return mapHTTPError(resp)
}

// ── object storage ───────────────────────────────────────────────────────────

func (r *restRemoteStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	resp, err := r.authedRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post("/storage/v1/object/" + bucket + "/" + path)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return r.baseURL + "/storage/v1/object/public/" + bucket + "/" + escapePath(path), nil
}

// escapePath escapes each segment of an object path separately, keeping the
// "/" separators so the public URL still addresses the uploaded object.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *restRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := r.client.R().SetContext(ctx)
	if token := r.session(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
