package country

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://restcountries.com/v3.1"

type ClientOptions struct {
	BaseURL       string
	Timeout       time.Duration
	UserAgent     string
	RatePerSecond float64
	MaxRetries    int
	// Backoff is the wait before the first retry; it doubles per attempt.
	Backoff time.Duration
}

// Client talks to the REST Countries v3.1 API.
type Client struct {
	HTTP       *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(opts ClientOptions, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "countrycard/0.1"
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &Client{
		HTTP:       &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// FetchCountryByName calls /name/{query}. A 404 or an empty result is
// ErrNotFound; transport failures and other statuses are *NetworkError after
// retries are exhausted. 429 and 5xx are retried, other 4xx are not.
func (c *Client) FetchCountryByName(ctx context.Context, query string) ([]json.RawMessage, error) {
	q, err := CleanQuery(query)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/name/%s", c.baseURL, url.PathEscape(q))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<uint(attempt-1))
			c.logger.Debug("retrying country lookup",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, &NetworkError{URL: endpoint, Err: ctx.Err()}
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{URL: endpoint, Err: err}
		}

		results, retry, err := c.get(ctx, endpoint)
		if err == nil {
			return results, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	c.logger.Warn("country lookup failed", zap.String("url", endpoint), zap.Error(lastErr))
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, endpoint string) ([]json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, &NetworkError{URL: endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// A cancelled context will fail every later attempt too.
		retry := ctx.Err() == nil
		return nil, retry, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, &NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, false, &NetworkError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	var results []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) {
			return nil, true, &NetworkError{URL: endpoint, Err: err}
		}
		return nil, false, &FormatError{Field: "response", Reason: err.Error()}
	}
	if len(results) == 0 {
		return nil, false, ErrNotFound
	}
	return results, false, nil
}
