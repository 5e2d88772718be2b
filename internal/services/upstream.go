package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/codyseavey/poke-finder/backend/internal/metrics"
)

const (
	upstreamDefaultTimeout = 10 * time.Second
	maxUpstreamBody        = 16 << 20
	userAgent              = "poke-finder/1.0"
)

// upstream is the HTTP plumbing shared by the portal and wiki clients.
type upstream struct {
	client  *http.Client
	limiter *rate.Limiter
	source  string
	timeout time.Duration
}

func newUpstream(source string, client *http.Client, timeout time.Duration, rps float64) *upstream {
	if timeout <= 0 {
		timeout = upstreamDefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &upstream{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		source:  source,
		timeout: timeout,
	}
}

// get fetches reqURL and returns the body of a 200 response. Every failure is
// wrapped in ErrUpstreamUnavailable.
func (u *upstream) get(ctx context.Context, reqURL string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(u.source, result).Inc()
		metrics.UpstreamLatency.WithLabelValues(u.source).Observe(time.Since(start).Seconds())
	}()

	if err := u.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s rate limit wait: %w", ErrUpstreamUnavailable, u.source, err)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %w", ErrUpstreamUnavailable, u.source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstreamUnavailable, u.source, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %w", ErrUpstreamUnavailable, u.source, err)
	}
	return body, nil
}
