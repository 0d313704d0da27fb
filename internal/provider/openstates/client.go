// Package openstates is the client for the OpenStates v3 API, the national
// civic-data aggregator. It identifies people by division/jurisdiction
// rather than by any key the state APIs share, so its records only become
// useful after the identity resolver matches them on chamber+district.
package openstates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://v3.openstates.org"

// perPage is the fixed page size for list endpoints.
const perPage = 50

// Client is the HTTP client for OpenStates endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an OpenStates HTTP client with rate limiting.
func NewClient(apiKey string, requestsPerMinute int, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, apiKey, requestsPerMinute, logger)
}

// NewClientWithBaseURL is NewClient with an overridable base URL for tests.
func NewClientWithBaseURL(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// pagedResponse is the common OpenStates list wrapper. Pagination metadata
// is only known once the first page has been fetched.
type pagedResponse struct {
	Results    json.RawMessage `json:"results"`
	Pagination struct {
		Page       int `json:"page"`
		MaxPage    int `json:"max_page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

// get performs a rate-limited GET request to an OpenStates endpoint.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*pagedResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenStates %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	var result pagedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}

// getAllPages walks a paginated endpoint starting at page 1 and
// concatenates results in request order. The loop terminates when the
// server-reported max_page is reached.
func (c *Client) getAllPages(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", fmt.Sprintf("%d", perPage))

	var all []json.RawMessage
	page := 1

	for {
		params.Set("page", fmt.Sprintf("%d", page))
		resp, err := c.get(ctx, path, params)
		if err != nil {
			return nil, err
		}

		var items []json.RawMessage
		if err := json.Unmarshal(resp.Results, &items); err != nil {
			return nil, fmt.Errorf("decode results page %d: %w", page, err)
		}
		all = append(all, items...)

		if resp.Pagination.Page >= resp.Pagination.MaxPage {
			break
		}
		page++
	}

	return all, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
