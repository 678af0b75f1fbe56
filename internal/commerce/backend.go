package commerce

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when the backend has no matching order
var ErrNotFound = errors.New("order not found")

// Order is the backend-neutral shape of a commerce order.
// Only the fields the reply pipeline reads are modelled.
type Order struct {
	Number            string        `json:"number"`
	Email             string        `json:"email"`
	FulfillmentStatus string        `json:"fulfillmentStatus"`
	FinancialStatus   string        `json:"financialStatus"`
	CreatedAt         time.Time     `json:"createdAt"`
	LineItems         []LineItem    `json:"lineItems"`
	Fulfillments      []Fulfillment `json:"fulfillments"`
}

// LineItem is one product row of an order
type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
}

// Fulfillment is a shipment record attached to an order
type Fulfillment struct {
	TrackingNumber  string `json:"trackingNumber"`
	TrackingCompany string `json:"trackingCompany"`
	TrackingURL     string `json:"trackingUrl"`
}

// Backend defines the contract for commerce systems orders are looked up in
type Backend interface {
	// Code returns the unique code for this backend (e.g., "shopify", "odoo")
	Code() string

	// FindOrderByNumber returns the order with the given number, or ErrNotFound
	FindOrderByNumber(ctx context.Context, number string) (*Order, error)

	// FindOrdersByEmail returns the customer's orders, most recent first
	FindOrdersByEmail(ctx context.Context, email string) ([]Order, error)
}

// StatusError is a non-success HTTP answer from a commerce API
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Backend, e.StatusCode, e.Body)
}

// Retryable reports whether the failure is transient (throttling or server side)
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
