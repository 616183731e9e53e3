package vlr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"vct-scorigami/internal/constants"
)

const BaseURL = "https://www.vlr.gg"

// ErrFetchFailed means every attempt for a URL was exhausted. Callers
// treat it as "no content from this URL", not as a fatal condition.
var ErrFetchFailed = errors.New("fetch failed")

// vlr.gg serves an error page to clients without a browser identity,
// so every request carries these.
const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLang   = "en-US,en;q=0.5"
)

type Client struct {
	http        *fasthttp.Client
	logger      zerolog.Logger
	baseURL     string
	attempts    int
	backoffBase time.Duration
}

type ClientOption func(*Client)

// WithBaseURL points the client at a different site root. Used by
// tests to target an httptest server.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithRetry overrides the attempt count and backoff base. Used by
// tests to keep the exponential sleeps short.
func WithRetry(attempts int, backoffBase time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.backoffBase = backoffBase
	}
}

func NewClient(logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		http: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.FetchTimeout,
			WriteTimeout:        constants.FetchTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger:      logger,
		baseURL:     BaseURL,
		attempts:    constants.FetchAttempts,
		backoffBase: constants.FetchBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage retrieves a page body, retrying with exponential backoff.
// A non-2xx response counts as a failed attempt like a network error.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoffBase * (1 << (attempt - 1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doRequest(ctx, url)
		if err == nil {
			return body, nil
		}

		c.logger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Int("max_attempts", c.attempts).
			Msg("fetch attempt failed")
	}

	c.logger.Error().
		Str("url", url).
		Int("attempts", c.attempts).
		Msg("giving up on url")
	return nil, fmt.Errorf("%w: %s after %d attempts", ErrFetchFailed, url, c.attempts)
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(userAgent)
	req.Header.Set(fasthttp.HeaderAccept, acceptHeader)
	req.Header.Set(fasthttp.HeaderAcceptLanguage, acceptLang)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.FetchTimeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	// resp.Body() is only valid until release
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
