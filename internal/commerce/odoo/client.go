package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kolo/xmlrpc"
)

// Client represents an Odoo XML-RPC client
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	CommonURL string
	ObjectURL string
	Timeout   time.Duration

	mu  sync.Mutex
	uid int
}

// NewClient creates a new Odoo client
func NewClient(url, db, username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
		Timeout:   timeout,
	}
}

// ctxTransport binds every XML-RPC round trip to the caller's context
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (c *Client) rpc(ctx context.Context, endpoint string) (*xmlrpc.Client, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	client, err := xmlrpc.NewClient(endpoint, ctxTransport{ctx: ctx, base: http.DefaultTransport})
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	return client, cancel, nil
}

// Authenticate authenticates with Odoo and returns the user ID.
// The UID is cached after the first successful call.
func (c *Client) Authenticate(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uid != 0 {
		return c.uid, nil
	}

	client, cancel, err := c.rpc(ctx, c.CommonURL)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make(map[string]interface{})}
	var uid interface{}
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}

	// Odoo answers false on bad credentials
	id, ok := toInt64(uid)
	if !ok || id == 0 {
		return 0, fmt.Errorf("authentication rejected for %s", c.Username)
	}

	c.uid = int(id)
	return c.uid, nil
}

// SearchOptions are the keyword arguments of search_read
type SearchOptions struct {
	Limit int
	Order string
}

// SearchRead performs a generic search_read operation
// model: Odoo model name (e.g., "sale.order")
// domain: search criteria
// fields: fields to fetch
// result: pointer to a slice the raw records are decoded into
func (c *Client) SearchRead(ctx context.Context, model string, domain []interface{}, fields []string, opts SearchOptions, result interface{}) error {
	uid, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}

	client, cancel, err := c.rpc(ctx, c.ObjectURL)
	if err != nil {
		return err
	}
	defer cancel()
	defer client.Close()

	kwargs := map[string]interface{}{
		"fields": fields,
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	args := []interface{}{
		c.Database,
		uid,
		c.Password,
		model,
		"search_read",
		[]interface{}{domain},
		kwargs,
	}

	var rawResult []map[string]interface{}
	if err := client.Call("execute_kw", args, &rawResult); err != nil {
		return fmt.Errorf("failed to execute search_read on %s: %w", model, err)
	}

	// Round-trip through JSON so callers can decode into typed records
	jsonData, err := json.Marshal(rawResult)
	if err != nil {
		return fmt.Errorf("failed to marshal raw result: %w", err)
	}

	if err := json.Unmarshal(jsonData, result); err != nil {
		return fmt.Errorf("failed to unmarshal into target: %w", err)
	}

	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
