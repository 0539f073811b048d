// Package odds talks to the third-party odds platform that resolves a
// booking code into a predefined set of fixtures.
package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"suretips/errs"
	"suretips/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromEnv reads ODDS_API_URL, defaulting to the local stub.
func NewClientFromEnv() *Client {
	base := os.Getenv("ODDS_API_URL")
	if base == "" {
		base = "http://localhost:9100"
	}
	return NewClient(base)
}

// LoadBooking resolves a booking code to its game list. Transport failures
// and timeouts come back as network errors, non-2xx answers and malformed
// payloads as service errors, so the admin UI can tell retryable from not.
func (c *Client) LoadBooking(ctx context.Context, code string) ([]models.ExternalGame, error) {
	if code == "" {
		return nil, errs.New(errs.Validation, "booking code is required")
	}

	endpoint := fmt.Sprintf("%s/load-booking/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Service, "build load-booking request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.Network, "odds platform unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.Newf(errs.NotFound, "no booking for code %s", code)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Newf(errs.Service, "odds platform returned %d", resp.StatusCode)
	}

	var body struct {
		Games []models.ExternalGame `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(errs.Service, "malformed load-booking payload", err)
	}

	games := make([]models.ExternalGame, 0, len(body.Games))
	for _, g := range body.Games {
		if g.Home == "" || g.Away == "" {
			return nil, errs.New(errs.Service, "load-booking game missing team names")
		}
		if g.Odd < 0 {
			return nil, errs.New(errs.Service, "load-booking game has negative odd")
		}
		games = append(games, g)
	}
	return games, nil
}
