// Package client is a REST client for the journal service.
package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
)

const (
	headerUserID = "X-User-ID"
	maxRetries   = 3
)

// APIError is a non-retryable error response from the service.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the matching domain error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return journal.ErrInvalidInput
	case http.StatusNotFound:
		return journal.ErrNotFound
	case http.StatusForbidden:
		return accounts.ErrForbidden
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// Client talks to the journal service on behalf of one user.
type Client struct {
	client  *resty.Client
	userID  uint
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff time.Duration
}

// New creates a client from the client configuration section.
func New(cfg *config.Client, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		userID:  cfg.UserID,
		logger:  logger,
		limiter: limiter,
		backoff: time.Second,
	}
}

// request starts a request carrying the caller's identity.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.client.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		SetHeader("Accept", "application/json")
	if c.userID != 0 {
		req.SetHeader(headerUserID, strconv.FormatUint(uint64(c.userID), 10))
	}
	return req
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			if !shouldRetry {
				return nil, apiError(resp)
			}
			err = apiError(resp)
		} else {
			shouldRetry = true
		}

		if i == maxRetries-1 {
			break
		}
		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

func apiError(resp *resty.Response) error {
	e := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil && body.Error != "" {
		e.Message = body.Error
		e.Field = body.Field
	}
	return e
}

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, journal.ErrNotFound)
}
