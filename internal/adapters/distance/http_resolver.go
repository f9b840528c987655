package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"route-time-service/internal/platform/logger"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
	"strings"
	"time"
)

// Write side of the persistent distance store.
type DistanceStore interface {
	ports.DistanceRepository
	PutMany(ctx context.Context, origin string, results map[string]float64) error
}

// HTTPResolver asks an external routing service for the network distance
// between two stations: GET {baseURL}/distance?from=..&to=.. answering
// {"distance_km": 123.4}.
//
// When a Store is configured, results are read from and written to it so
// repeated pairs do not reach the service again.
type HTTPResolver struct {
	session *http.Client
	baseURL string
	retries int
	backoff time.Duration
	store   DistanceStore
	log     logger.Logger
}

// HTTPOptions tunes the routing service client.
type HTTPOptions struct {
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure
	// (network error, 429, 5xx). Zero sends each request once.
	Retries int
	// Backoff is the first wait between attempts; it doubles every retry.
	// A longer Retry-After on 429 takes precedence.
	Backoff time.Duration
}

type distanceResponse struct {
	DistanceKM *float64 `json:"distance_km"`
}

func NewHTTPResolver(baseURL string, opts HTTPOptions, store DistanceStore) (*HTTPResolver, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("http distance resolver: base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("http distance resolver: parse base url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 0 {
		return nil, fmt.Errorf("http distance resolver: negative retries %d", opts.Retries)
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}

	return &HTTPResolver{
		session: &http.Client{Timeout: opts.Timeout},
		baseURL: baseURL,
		retries: opts.Retries,
		backoff: opts.Backoff,
		store:   store,
		log:     logger.New("distance-http"),
	}, nil
}

func (h *HTTPResolver) Distance(ctx context.Context, from, to string) (_ float64, err error) {
	defer obs.Time(ctx, "distance.http.Distance")(&err)

	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, errors.New("http distance: station codes must be non-empty")
	}
	if from == to {
		return 0, nil
	}

	if h.store != nil {
		km, ok, err := h.store.GetDistance(ctx, from, to)
		if err != nil {
			h.log.Warnf("distance store lookup %q -> %q failed: %v", from, to, err)
		} else if ok {
			return km, nil
		}
	}

	km, err := h.fetch(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("http distance %q -> %q: %w", from, to, err)
	}

	if h.store != nil {
		if err := h.store.PutMany(ctx, from, map[string]float64{to: km}); err != nil {
			h.log.Warnf("distance store write %q -> %q failed: %v", from, to, err)
		}
	}

	return km, nil
}

func (h *HTTPResolver) fetch(ctx context.Context, from, to string) (float64, error) {
	query := url.Values{"from": {from}, "to": {to}}

	resp, err := h.getWithRetry(ctx, h.baseURL+"/distance", query)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body distanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode distance response: %w", err)
	}
	if body.DistanceKM == nil {
		return 0, errors.New("distance response has no distance_km")
	}
	if *body.DistanceKM < 0 {
		return 0, fmt.Errorf("distance response has negative distance %v", *body.DistanceKM)
	}

	return *body.DistanceKM, nil
}
