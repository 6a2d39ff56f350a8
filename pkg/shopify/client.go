package shopify

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

const productsPageLimit = 250

// ClientConfig represents the configuration for the Shopify API client.
type ClientConfig struct {
	BaseURL     string // e.g. https://acme.myshopify.com
	APIVersion  string // e.g. 2022-04
	APIKey      string
	Password    string
	AccessToken string
	Timeout     time.Duration // Default: 30 seconds
}

// Client is a Shopify Admin REST API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	password    string
	accessToken string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API error (status %d): %s", e.StatusCode, e.Message)
}

// NewClient creates a new Shopify API client.
// When both APIKey and Password are set, HTTP basic auth is used;
// otherwise AccessToken is sent in the X-Shopify-Access-Token header.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	version := config.APIVersion
	if version == "" {
		version = "2022-04"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     fmt.Sprintf("%s/admin/api/%s", strings.TrimSuffix(config.BaseURL, "/"), version),
		apiKey:      config.APIKey,
		password:    config.Password,
		accessToken: config.AccessToken,
	}
}

// ListActiveProducts fetches every active product, following Link header
// pagination until no next page remains. API order is preserved.
func (c *Client) ListActiveProducts(ctx context.Context) ([]Product, error) {
	query := url.Values{}
	query.Set("status", "active")
	query.Set("limit", fmt.Sprintf("%d", productsPageLimit))
	nextURL := fmt.Sprintf("%s/products.json?%s", c.baseURL, query.Encode())

	var allProducts []Product
	for page := 1; nextURL != ""; page++ {
		var productsResp ProductsResponse
		header, err := c.get(ctx, nextURL, &productsResp)
		if err != nil {
			return nil, fmt.Errorf("failed to list products (page=%d): %w", page, err)
		}

		allProducts = append(allProducts, productsResp.Products...)

		nextURL, err = c.resolveNext(header.Get("Link"))
		if err != nil {
			return nil, fmt.Errorf("invalid pagination link (page=%d): %w", page, err)
		}
	}

	return allProducts, nil
}

// GetInventoryItem fetches one inventory item by id.
func (c *Client) GetInventoryItem(ctx context.Context, id int64) (InventoryItem, error) {
	endpoint := fmt.Sprintf("%s/inventory_items/%d.json", c.baseURL, id)

	var itemResp InventoryItemResponse
	if _, err := c.get(ctx, endpoint, &itemResp); err != nil {
		return InventoryItem{}, fmt.Errorf("failed to get inventory item %d: %w", id, err)
	}

	return itemResp.InventoryItem, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.applyAuth(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Header, nil
}

func (c *Client) applyAuth(req *http.Request) {
	if c.apiKey != "" && c.password != "" {
		req.SetBasicAuth(c.apiKey, c.password)
		return
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
}

// resolveNext returns the absolute URL of the rel="next" link, or "" when done.
func (c *Client) resolveNext(linkHeader string) (string, error) {
	next := parseLinkHeader(linkHeader)["next"]
	if next == "" {
		return "", nil
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u, err := base.Parse(next)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// parseLinkHeader maps rel values to URLs from an RFC 8288 Link header.
func parseLinkHeader(header string) map[string]string {
	parts := strings.Split(header, ",")
	links := make(map[string]string, len(parts))
	for _, part := range parts {
		seg := strings.Split(strings.TrimSpace(part), ";")
		if len(seg) < 2 {
			continue
		}
		urlPart := strings.Trim(seg[0], "<> ")
		var rel string
		for _, param := range seg[1:] {
			kv := strings.SplitN(strings.TrimSpace(param), "=", 2)
			if len(kv) != 2 {
				continue
			}
			if kv[0] == "rel" {
				rel = strings.Trim(kv[1], `"`)
			}
		}
		if rel != "" {
			links[rel] = urlPart
		}
	}
	return links
}

// parseError parses an error response from the Admin API.
func parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read error response"}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Errors == nil {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	switch v := errResp.Errors.(type) {
	case string:
		return &APIError{StatusCode: resp.StatusCode, Message: v}
	default:
		encoded, _ := json.Marshal(v)
		return &APIError{StatusCode: resp.StatusCode, Message: string(encoded)}
	}
}
