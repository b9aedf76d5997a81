package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultComponents = "country:pk"
	DefaultFields     = "address_component,formatted_address,geometry"
)

// Client proxies the Google Places and Geocoding web services. Responses
// are returned as received.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Autocomplete(ctx context.Context, input, components string) (json.RawMessage, error) {
	if components == "" {
		components = DefaultComponents
	}

	return c.get(ctx, "/place/autocomplete/json", url.Values{
		"input":      {input},
		"components": {components},
	})
}

func (c *Client) Details(ctx context.Context, placeID, fields string) (json.RawMessage, error) {
	if fields == "" {
		fields = DefaultFields
	}

	return c.get(ctx, "/place/details/json", url.Values{
		"place_id": {placeID},
		"fields":   {fields},
	})
}

func (c *Client) Geocode(ctx context.Context, address string) (json.RawMessage, error) {
	return c.get(ctx, "/geocode/json", url.Values{
		"address": {address},
	})
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call places api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api returned status %d: %s", resp.StatusCode, string(body))
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("places api returned invalid json")
	}

	return body, nil
}
