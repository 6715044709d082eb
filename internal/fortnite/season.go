package fortnite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SeasonClient fetches the icon shown next to the "Season" choice.
type SeasonClient struct {
	url        string
	httpClient *http.Client
}

// NewSeasonClient creates a season label client.
func NewSeasonClient(url string, timeout time.Duration) *SeasonClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SeasonClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SeasonIcon returns the current season icon.
func (c *SeasonClient) SeasonIcon(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	var payload seasonResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode season: %v", ErrTransport, err)
	}

	icon := strings.TrimSpace(payload.TimeWindow)
	if icon == "" {
		return "", fmt.Errorf("%w: empty season icon", ErrTransport)
	}
	return icon, nil
}
