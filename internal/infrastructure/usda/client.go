package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerHour = 1000
	defaultBurst           = 10
	searchPageSize         = "10"
	maxAttempts            = 3
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	retryDelay  time.Duration
	debug       bool
}

// NewClient creates a new USDA API client allowing requestsPerHour calls.
// A non-positive requestsPerHour uses the FoodData Central default of 1000.
func NewClient(apiKey, baseURL string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = defaultRequestsPerHour
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), defaultBurst),
		retryDelay:  500 * time.Millisecond,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("dataType", "Survey (FNDDS),Foundation,Branded")
	params.Add("pageSize", searchPageSize)

	var searchResp domain.USDASearchResponse
	if err := c.getJSON(ctx, "/v1/foods/search", params, &searchResp); err != nil {
		return nil, err
	}

	if len(searchResp.Foods) == 0 {
		c.logf("No foods found for query: %q", query)
		return nil, domain.ErrProductNotFound
	}

	c.logf("Found %d foods for query: %q", len(searchResp.Foods), query)
	return &searchResp, nil
}

// GetFoodDetails retrieves nutrition information for a single food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	var food domain.USDAFood
	if err := c.getJSON(ctx, "/v1/food/"+url.PathEscape(fdcID), url.Values{}, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// getJSON performs a rate limited GET with retries and decodes the body into out.
// 404 responses and undecodable bodies are not retried.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	c.logf("GET %s", path)

	err := retry.Do(
		func() error {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(fmt.Errorf("rate limiter error: %w", err))
			}

			body, err := c.doRequest(ctx, reqURL)
			if err != nil {
				return err
			}

			if err := json.Unmarshal(body, out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logf("Attempt %d for %s failed: %v", n+1, path, err)
		}),
	)
	if err != nil {
		c.logf("Request failed for %s: %v", path, err)
	}
	return err
}

// doRequest executes a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", "Ignite/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrUSDAAPIFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.Unrecoverable(domain.ErrProductNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrUSDAAPIFailure, resp.StatusCode, string(body))
	}

	return body, nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[USDA] "+format, args...)
	}
}
