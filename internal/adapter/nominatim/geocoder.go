package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	defaultTimeout = 5 * time.Second
	maxAttempts    = 3
	retryBackoff   = 300 * time.Millisecond
)

// Client resolves free-text addresses through the Nominatim search API.
// Nominatim's usage policy requires an identifying User-Agent on every
// request, so userAgent must be non-empty.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func New(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves the first forward-search match for the given location.
// A location that resolves to zero matches is types.ErrLocationNotFound;
// server errors and network failures are retried a bounded number of times.
func (c *Client) Geocode(ctx context.Context, location string) (models.Location, error) {
	const op = "nominatim.Geocode"

	ctx = wrap.WithAction(ctx, "nominatim_search")

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(location))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return models.Location{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, ctx.Err()))
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
		}

		loc, retryable, err := c.search(ctx, endpoint, location)
		if err == nil {
			return loc, nil
		}
		if !retryable {
			return models.Location{}, err
		}
		lastErr = err
	}

	ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
	return models.Location{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, lastErr))
}

func (c *Client) search(ctx context.Context, endpoint, location string) (models.Location, bool, error) {
	const op = "nominatim.search"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Location{}, false, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Location{}, ctx.Err() == nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return models.Location{}, true, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode)
	default:
		return models.Location{}, false, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Location{}, false, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if len(results) == 0 {
		return models.Location{}, false, fmt.Errorf("%w: %q", types.ErrLocationNotFound, location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Location{}, false, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Location{}, false, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return models.Location{
		Latitude:  lat,
		Longitude: lon,
		Address:   results[0].DisplayName,
	}, false, nil
}
