package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Longest Retry-After honored from a 429 answer.
const maxRetryAfter = 30 * time.Second

// statusError is a routing service answer with an error status.
type statusError struct {
	code       int
	body       string
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("routing service answered %d: %s", e.code, e.body)
}

// 501 means the endpoint does not exist; asking again will not help.
func (e *statusError) transient() bool {
	return e.code == http.StatusTooManyRequests || (e.code >= 500 && e.code != http.StatusNotImplemented)
}

// get sends a single GET; error statuses come back as *statusError.
func (h *HTTPResolver) get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	se := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	if resp.StatusCode == http.StatusTooManyRequests {
		se.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return nil, se
}

// getWithRetry sends the request once, then up to h.retries more times while
// failures are transient. Waits start at h.backoff and double; a 429's
// Retry-After wins when it is longer.
func (h *HTTPResolver) getWithRetry(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	wait := h.backoff
	for attempt := 0; ; attempt++ {
		resp, err := h.get(ctx, endpoint, query)
		if err == nil {
			return resp, nil
		}
		if attempt >= h.retries || ctx.Err() != nil {
			return nil, err
		}

		delay := wait
		var se *statusError
		if errors.As(err, &se) {
			if !se.transient() {
				return nil, err
			}
			if se.retryAfter > delay {
				delay = se.retryAfter
			}
		}

		h.log.Warnf("routing service attempt %d/%d failed, retrying in %s: %v", attempt+1, h.retries+1, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// parseRetryAfter reads delay-seconds or an HTTP date. Invalid or past
// values yield zero; long values are capped at maxRetryAfter.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		d = t.Sub(now)
	}

	switch {
	case d < 0:
		return 0
	case d > maxRetryAfter:
		return maxRetryAfter
	}
	return d
}
