package models

import "time"

// DefaultFulfillmentStatus is used when the commerce backend reports none
const DefaultFulfillmentStatus = "unfulfilled"

// LineItem is one product row of an order
type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku,omitempty"`
	Price    string `json:"price,omitempty"`
}

// Tracking holds shipment tracking taken from the first fulfillment
type Tracking struct {
	Number  string `json:"number"`
	Carrier string `json:"carrier,omitempty"`
	URL     string `json:"url,omitempty"`
}

// DeliveryWindow is the estimated pre-order delivery range, rendered as "January 2"
type DeliveryWindow struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

// OrderContext is the normalized subset of a commerce order used to ground a reply
type OrderContext struct {
	OrderNumber       string          `json:"order_number"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	FinancialStatus   string          `json:"financial_status,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
	LineItems         []LineItem      `json:"line_items"`
	Tracking          *Tracking       `json:"tracking,omitempty"`
	DeliveryWindow    *DeliveryWindow `json:"delivery_window,omitempty"`
}
