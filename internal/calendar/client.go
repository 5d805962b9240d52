// Package calendar implements the client for the Bitcoin Calendar content API.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxEvents is the page size requested from the API. Nothing beyond it is fetched.
const MaxEvents = 100

// maxErrorBody bounds how much of a failed response is logged.
const maxErrorBody = 512

// Source fetches the events of one calendar day.
type Source interface {
	FetchEvents(ctx context.Context, month, day string) []Event
}

// Client queries GET {base}/events.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *http.Client
	log      *slog.Logger
}

// NewClient creates a client for the API at baseURL. Requests are bounded by timeout.
func NewClient(baseURL, apiKey, language string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
		http:     NewHTTPClient(timeout),
		log:      log.With("component", "calendar_client"),
	}
}

// NewHTTPClient returns an http.Client with bounded dial and TLS handshakes.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// FetchEvents returns the events whose month and day match. Any failure is
// logged and reported as an empty result.
func (c *Client) FetchEvents(ctx context.Context, month, day string) []Event {
	log := c.log.With("month", month, "day", day)
	log.InfoContext(ctx, "Fetching events")

	events, err := c.fetch(ctx, month, day)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch events from API", "error", err)
		return []Event{}
	}

	log.InfoContext(ctx, "Successfully fetched events for today", "count", len(events))
	return events
}

func (c *Client) fetch(ctx context.Context, month, day string) ([]Event, error) {
	u, err := url.Parse(c.baseURL + "/events")
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	q := u.Query()
	q.Set("month", month)
	q.Set("day", day)
	q.Set("limit", strconv.Itoa(MaxEvents))
	q.Set("lang", c.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}
	if payload.Events == nil {
		return []Event{}, nil
	}
	return payload.Events, nil
}
