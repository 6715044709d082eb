// Package fortnite provides HTTP clients for the Fortnite stats API and the
// remote season-label source.
package fortnite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
)

// Lookup errors.
var (
	// ErrNotFound is returned when the API reports a non-success status.
	ErrNotFound = errors.New("player not found")
	// ErrTransport covers network failures, timeouts and malformed payloads.
	ErrTransport = errors.New("stats transport error")
)

const maxBodyBytes = 1 << 20

// Client fetches player stats.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a stats client. A zero timeout falls back to 10 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup issues one stats request for the query.
// Returns ErrNotFound when the payload status is not 200 and an error wrapping
// ErrTransport for anything that prevented reading a payload.
func (c *Client) Lookup(ctx context.Context, q model.Query) (*PlayerStats, error) {
	params := url.Values{}
	params.Set("name", q.Username)
	params.Set("accountType", string(q.AccountType))
	params.Set("timeWindow", string(q.TimeWindow))
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("account_type", string(q.AccountType)).
			Dur("took", time.Since(start)).
			Msg("Stats request failed")
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	var payload statsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode body (http %d): %v", ErrTransport, resp.StatusCode, err)
	}

	log.Debug().
		Int("http_status", resp.StatusCode).
		Int("status", payload.Status).
		Str("account_type", string(q.AccountType)).
		Str("time_window", string(q.TimeWindow)).
		Dur("took", time.Since(start)).
		Msg("Stats response")

	if payload.Status != http.StatusOK {
		return nil, ErrNotFound
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: success status without data", ErrTransport)
	}
	return payload.Data, nil
}

// ForMatch returns the stats bucket for a match type, or nil when absent.
func (p *PlayerStats) ForMatch(m model.MatchType) *MatchStats {
	if p == nil || p.Stats.All == nil {
		return nil
	}
	all := p.Stats.All
	switch m {
	case model.MatchOverall:
		return all.Overall
	case model.MatchSolo:
		return all.Solo
	case model.MatchDuo:
		return all.Duo
	case model.MatchTrio:
		return all.Trio
	case model.MatchSquad:
		return all.Squad
	case model.MatchLTM:
		return all.LTM
	}
	return nil
}
