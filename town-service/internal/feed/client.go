// Package feed talks to the upstream town data feed that seeds the town store.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is the town feed API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new town feed client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Page is one page of the feed's town listing.
type Page struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Towns      []FeedTown `json:"results"`
}

// FeedTown is a town as the feed describes it.
type FeedTown struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Country             string   `json:"country"`
	Region              string   `json:"region"`
	Description         string   `json:"description"`
	GeographicFeatures  []string `json:"geographic_features"`
	ActivitiesAvailable []string `json:"activities_available"`
	ImageURL            string   `json:"image_url"`
}

// FetchPage fetches one page of towns from the feed.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + "/towns?" + q.Encode()

	slog.Debug("fetching town feed page", "page", page)
	resp, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result Page
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode feed page: %w", err)
	}
	return &result, nil
}

func (c *Client) doGet(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("town feed returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
