package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/brightpath/studysync/models"
)

// HTTPClientConfig configures the resty-based backend adapter.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpBackend struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPBackend builds a Backend talking to the platform API over HTTP.
// Timeout defaults to 15 seconds when unset; a timed-out call surfaces as
// ErrTransientBackend and counts toward the item's retry budget.
func NewHTTPBackend(cfg HTTPClientConfig) Backend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpBackend{client: cli}
}

func (h *httpBackend) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpBackend) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpBackend) GetEntity(ctx context.Context, ref models.EntityRef) (models.RemoteEntity, error) {
	resp, err := h.authedRequest(ctx).
		Get(entityPath(ref))
	if err != nil {
		return models.RemoteEntity{}, fmt.Errorf("%w: get entity request: %v", ErrTransientBackend, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteEntity{}, err
	}

	var remote models.RemoteEntity
	if err = json.Unmarshal(resp.Body(), &remote); err != nil {
		return models.RemoteEntity{}, fmt.Errorf("decode get entity response: %w", err)
	}

	return remote, nil
}

func (h *httpBackend) PutEntity(ctx context.Context, ref models.EntityRef, payload []byte) (models.PutResult, error) {
	body := models.RemoteEntity{Payload: payload}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(entityPath(ref))
	if err != nil {
		return models.PutResult{}, fmt.Errorf("%w: put entity request: %v", ErrTransientBackend, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PutResult{}, err
	}

	var result models.PutResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.PutResult{}, fmt.Errorf("decode put entity response: %w", err)
	}

	return result, nil
}

func (h *httpBackend) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func entityPath(ref models.EntityRef) string {
	return fmt.Sprintf("/api/entities/%s/%s", ref.Kind, ref.ID)
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrEntityNotFound
	case code == http.StatusRequestTimeout,
		code == http.StatusTooManyRequests,
		code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransientBackend, code, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrPermanentBackend, code, body)
	}
}
