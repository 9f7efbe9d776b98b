package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/reviewlane/reviewlane/internal/logging"
	"github.com/reviewlane/reviewlane/internal/retry"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptJSON     = "application/vnd.github.v3+json"
	acceptDiff     = "application/vnd.github.v3.diff"
	userAgent      = "ReviewLane-Bot"

	perPage = 100 // platform maximum page size

	// Rate-limit retry budgets: primary limits get two wait-and-retry
	// attempts, secondary (abuse-detection) limits one.
	primaryRetryBudget   = 2
	secondaryRetryBudget = 1

	// Below this many remaining requests, read-heavy operations log a
	// warning without blocking.
	lowQuotaThreshold = 100
)

// Client is an authenticated client for the source-control REST API. All
// pagination, throttling, and retry policy is centralized here so callers
// issue simple method calls. The client is stateless apart from credentials
// and safe for sequential reuse across context builds.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	retry   retry.Config
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default API host (enterprise
// installs, test servers).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryConfig overrides the transient-failure backoff configuration.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger overrides the component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client with a pre-resolved installation or session
// token. Credential resolution itself lives in the caller.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		retry:   retry.DefaultConfig(),
		log:     logging.Component("github"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one API request with the full retry/throttle policy applied:
// primary rate-limit hits wait until reset and retry up to twice, secondary
// limits honor Retry-After once, 4xx client errors are surfaced immediately,
// and transient network or 5xx failures back off exponentially. The caller
// owns the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, accept string, body any) (*http.Response, error) {
	primaryLeft := primaryRetryBudget
	secondaryLeft := secondaryRetryBudget
	transientAttempt := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.roundTrip(ctx, method, path, query, accept, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if transientAttempt < c.retry.MaxRetries && retry.IsTransient(err) {
				delay := retry.Delay(c.retry, transientAttempt)
				transientAttempt++
				c.log.Warn().Err(err).Str("path", path).Dur("delay", delay).Msg("transient failure, retrying")
				if err := sleepCtx(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if resp.StatusCode < 300 {
			return resp, nil
		}

		// Drain so the connection can be reused across retries.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrUnauthorized}

		case resp.StatusCode == http.StatusNotFound:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrNotFound}

		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrMalformedResponse}

		case isSecondaryLimit(resp):
			if secondaryLeft == 0 {
				return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrRateLimitExceeded}
			}
			secondaryLeft--
			wait := retryAfter(resp)
			c.log.Warn().Str("path", path).Dur("wait", wait).Msg("secondary rate limit hit, waiting")
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}

		case isPrimaryLimit(resp):
			if primaryLeft == 0 {
				return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrRateLimitExceeded}
			}
			primaryLeft--
			wait := untilReset(resp)
			c.log.Warn().Str("path", path).Dur("wait", wait).Msg("primary rate limit hit, waiting for reset")
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}

		case resp.StatusCode == http.StatusForbidden:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Sentinel: ErrForbidden}

		case resp.StatusCode >= 500:
			if transientAttempt >= c.retry.MaxRetries {
				return nil, &APIError{StatusCode: resp.StatusCode, Path: path}
			}
			delay := retry.Delay(c.retry, transientAttempt)
			transientAttempt++
			c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Dur("delay", delay).Msg("server error, retrying")
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}

		default:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path}
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, accept string, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// getJSON issues a GET and decodes the body, mapping decode failures to
// ErrMalformedResponse.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, acceptJSON, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// postJSON issues a write and decodes the response when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil, acceptJSON, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// warnLowQuota re-fetches the quota snapshot before a read-heavy operation
// and logs a warning below the threshold. It never blocks the call.
func (c *Client) warnLowQuota(ctx context.Context) {
	info, err := c.GetRateLimit(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("rate limit check failed")
		return
	}
	if info.Remaining < lowQuotaThreshold {
		c.log.Warn().
			Int("remaining", info.Remaining).
			Time("reset", info.ResetTime).
			Msg("API quota running low")
	}
}

func isPrimaryLimit(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func isSecondaryLimit(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	return resp.Header.Get("Retry-After") != ""
}

func retryAfter(resp *http.Response) time.Duration {
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 5 * time.Second
}

func untilReset(resp *http.Response) time.Duration {
	if unix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if wait := time.Until(time.Unix(unix, 0)); wait > 0 {
			return wait
		}
	}
	return time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
