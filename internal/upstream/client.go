package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the inbound request id to the upstream service
const RequestIDHeader = "X-Request-ID"

const defaultRetryDelay = 200 * time.Millisecond

// Config describes one upstream HTTP dependency
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RatePerSec float64
	Burst      int
}

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.Code)
}

// StatusCode extracts the upstream status from err, or 0 when the request
// never got a response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Client performs GET requests against one upstream with a timeout, a
// bounded retry and client-side pacing.
type Client struct {
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	retryDelay time.Duration
	log        *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		maxRetries: uint64(cfg.MaxRetries),
		retryDelay: cfg.RetryDelay,
		log:        log,
	}
}

// BaseURL returns the URL paths are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches baseURL+path and returns the body of a 2xx response.
// Transport errors and 5xx answers are retried; 4xx answers are not.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	requestID := chimiddleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.do(ctx, url, requestID)
		if err == nil {
			body = b
			return nil
		}

		if code := StatusCode(err); code != 0 && code < http.StatusInternalServerError {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		c.log.Warn("upstream request failed", "url", url, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON fetches path and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url, requestID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	return body, nil
}
