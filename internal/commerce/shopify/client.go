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

	"github.com/xelth-com/shopreply/internal/commerce"
)

const (
	defaultAPIVersion = "2024-01"
	orderFields       = "name,order_number,email,created_at,financial_status,fulfillment_status,line_items,fulfillments"
	maxEmailOrders    = 5
)

// Config holds Shopify Admin API settings
type Config struct {
	ShopURL     string // e.g. https://my-shop.myshopify.com
	AccessToken string
	APIVersion  string        // defaults to 2024-01
	Timeout     time.Duration // per request, default 10s
}

// Client implements commerce.Backend against the Shopify Admin REST API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Shopify client
func NewClient(cfg Config) (*Client, error) {
	if cfg.ShopURL == "" {
		return nil, fmt.Errorf("shop URL is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	shop := strings.TrimRight(cfg.ShopURL, "/")
	if !strings.HasPrefix(shop, "http://") && !strings.HasPrefix(shop, "https://") {
		shop = "https://" + shop
	}

	return &Client{
		baseURL:    fmt.Sprintf("%s/admin/api/%s", shop, cfg.APIVersion),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Code returns the backend code
func (c *Client) Code() string {
	return "shopify"
}

// FindOrderByNumber looks an order up by its display name ("#3239")
func (c *Client) FindOrderByNumber(ctx context.Context, number string) (*commerce.Order, error) {
	name := number
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("status", "any")
	q.Set("limit", "1")
	q.Set("fields", orderFields)

	orders, err := c.listOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, commerce.ErrNotFound
	}

	return &orders[0], nil
}

// FindOrdersByEmail returns the customer's most recent orders first
func (c *Client) FindOrdersByEmail(ctx context.Context, email string) ([]commerce.Order, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("status", "any")
	q.Set("order", "created_at desc")
	q.Set("limit", fmt.Sprintf("%d", maxEmailOrders))
	q.Set("fields", orderFields)

	return c.listOrders(ctx, q)
}

func (c *Client) listOrders(ctx context.Context, q url.Values) ([]commerce.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, commerce.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &commerce.StatusError{Backend: "shopify", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]commerce.Order, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		orders = append(orders, o.toOrder())
	}
	return orders, nil
}
