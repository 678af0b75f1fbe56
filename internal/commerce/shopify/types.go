package shopify

import (
	"strconv"
	"time"

	"github.com/xelth-com/shopreply/internal/commerce"
)

// ordersResponse mirrors the GET /orders.json envelope
type ordersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

type shopifyOrder struct {
	Name              string               `json:"name"`
	OrderNumber       int64                `json:"order_number"`
	Email             string               `json:"email"`
	CreatedAt         string               `json:"created_at"`
	FinancialStatus   string               `json:"financial_status"`
	FulfillmentStatus *string              `json:"fulfillment_status"` // null until shipped
	LineItems         []shopifyLineItem    `json:"line_items"`
	Fulfillments      []shopifyFulfillment `json:"fulfillments"`
}

type shopifyLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
}

type shopifyFulfillment struct {
	TrackingNumber  string `json:"tracking_number"`
	TrackingCompany string `json:"tracking_company"`
	TrackingURL     string `json:"tracking_url"`
}

func (o shopifyOrder) toOrder() commerce.Order {
	order := commerce.Order{
		Number:          o.Name,
		Email:           o.Email,
		FinancialStatus: o.FinancialStatus,
	}
	if order.Number == "" && o.OrderNumber != 0 {
		order.Number = "#" + strconv.FormatInt(o.OrderNumber, 10)
	}
	if o.FulfillmentStatus != nil {
		order.FulfillmentStatus = *o.FulfillmentStatus
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		order.CreatedAt = t
	}

	for _, li := range o.LineItems {
		order.LineItems = append(order.LineItems, commerce.LineItem{
			Title:    li.Title,
			Quantity: li.Quantity,
			SKU:      li.SKU,
			Price:    li.Price,
		})
	}
	for _, f := range o.Fulfillments {
		order.Fulfillments = append(order.Fulfillments, commerce.Fulfillment{
			TrackingNumber:  f.TrackingNumber,
			TrackingCompany: f.TrackingCompany,
			TrackingURL:     f.TrackingURL,
		})
	}

	return order
}
