package promptapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/metrics"
)

// ErrUnreachable wraps transport-level failures talking to the backend.
var ErrUnreachable = errors.New("prompt backend unreachable")

// RequestError reports a non-2xx answer from the prompt backend.
type RequestError struct {
	Status int
	URL    string
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("prompt backend returned status %d for %s", e.Status, e.URL)
}

// Client talks to the prompt backend over its /api/banana surface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, token string, l logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: l,
	}
}

func (c *Client) ListPrompts(ctx context.Context, source string) ([]Prompt, error) {
	endpoint := c.baseURL + "/api/banana/prompts"
	if source != "" {
		endpoint += "?source=" + url.QueryEscape(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var prompts []Prompt
	if err := c.do(req, "list_prompts", &prompts); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched prompts from backend", "count", len(prompts), "source", source)

	return prompts, nil
}

func (c *Client) GetPrompt(ctx context.Context, id int) (Prompt, error) {
	endpoint := fmt.Sprintf("%s/api/banana/prompts/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to create request: %w", err)
	}

	var p Prompt
	if err := c.do(req, "get_prompt", &p); err != nil {
		return Prompt{}, err
	}

	return p, nil
}

func (c *Client) CreatePrompt(ctx context.Context, data PromptCreate) (Prompt, error) {
	endpoint := c.baseURL + "/api/banana/prompts"

	req, err := c.jsonRequest(ctx, http.MethodPost, endpoint, data)
	if err != nil {
		return Prompt{}, err
	}

	var p Prompt
	if err := c.do(req, "create_prompt", &p); err != nil {
		return Prompt{}, err
	}

	c.logger.Info("created prompt in backend", "id", p.ID, "title", p.Title)

	return p, nil
}

func (c *Client) UpdatePrompt(ctx context.Context, id int, data PromptUpdate) (Prompt, error) {
	endpoint := fmt.Sprintf("%s/api/banana/prompts/%d", c.baseURL, id)

	req, err := c.jsonRequest(ctx, http.MethodPut, endpoint, data)
	if err != nil {
		return Prompt{}, err
	}

	var p Prompt
	if err := c.do(req, "update_prompt", &p); err != nil {
		return Prompt{}, err
	}

	c.logger.Info("updated prompt in backend", "id", id)

	return p, nil
}

func (c *Client) UpdatePromptImage(ctx context.Context, id int, image string) error {
	endpoint := fmt.Sprintf("%s/api/banana/prompts/%d/image", c.baseURL, id)

	req, err := c.jsonRequest(ctx, http.MethodPatch, endpoint, map[string]string{"image": image})
	if err != nil {
		return err
	}

	if err := c.do(req, "update_prompt_image", nil); err != nil {
		return err
	}

	c.logger.Info("updated prompt image in backend", "id", id, "size", len(image))

	return nil
}

func (c *Client) DeletePrompt(ctx context.Context, id int) error {
	endpoint := fmt.Sprintf("%s/api/banana/prompts/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	if err := c.do(req, "delete_prompt", nil); err != nil {
		return err
	}

	c.logger.Info("deleted prompt in backend", "id", id)

	return nil
}

func (c *Client) TriggerSync(ctx context.Context) (SyncResult, error) {
	endpoint := c.baseURL + "/api/banana/sync"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	var res SyncResult
	if err := c.do(req, "trigger_sync", &res); err != nil {
		return SyncResult{}, err
	}

	c.logger.Info("triggered backend sync", "success", res.Success, "count", res.Count)

	return res, nil
}

func (c *Client) SyncStatus(ctx context.Context) (SyncStatus, error) {
	endpoint := c.baseURL + "/api/banana/sync/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("failed to create request: %w", err)
	}

	var st SyncStatus
	if err := c.do(req, "sync_status", &st); err != nil {
		return SyncStatus{}, err
	}

	return st, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return req, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	metrics.UpstreamRequests.WithLabelValues(operation).Inc()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		c.logger.Error("prompt backend request failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("prompt backend returned non-2xx", "operation", operation, "status", resp.StatusCode)
		return &RequestError{
			Status: resp.StatusCode,
			URL:    req.URL.String(),
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		return fmt.Errorf("failed to parse response body: %w", err)
	}

	return nil
}
