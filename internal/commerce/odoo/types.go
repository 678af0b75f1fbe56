package odoo

import (
	"encoding/json"
	"strings"
)

// Odoo returns false instead of null for empty values, so plain string
// and many2one fields need lenient decoding.

// String is a char/text field that may come back as false
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if str, ok := v.(string); ok {
		*s = String(str)
	} else {
		*s = ""
	}
	return nil
}

// Many2One is a relational field encoded as [id, display_name] or false
type Many2One struct {
	ID   int64
	Name string
}

func (m *Many2One) UnmarshalJSON(data []byte) error {
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		// false
		*m = Many2One{}
		return nil
	}
	if len(v) > 0 {
		if id, ok := v[0].(float64); ok {
			m.ID = int64(id)
		}
	}
	if len(v) > 1 {
		if name, ok := v[1].(string); ok {
			m.Name = name
		}
	}
	return nil
}

// saleOrder maps the sale.order fields the reply pipeline reads
type saleOrder struct {
	ID             int64    `json:"id"`
	Name           String   `json:"name"`
	DateOrder      String   `json:"date_order"`
	DeliveryStatus String   `json:"delivery_status"`
	InvoiceStatus  String   `json:"invoice_status"`
	Partner        Many2One `json:"partner_id"`
}

var saleOrderFields = []string{"id", "name", "date_order", "delivery_status", "invoice_status", "partner_id"}

// saleOrderLine maps sale.order.line
type saleOrderLine struct {
	Name        String   `json:"name"`
	Product     Many2One `json:"product_id"`
	Quantity    float64  `json:"product_uom_qty"`
	PriceUnit   float64  `json:"price_unit"`
	DisplayType String   `json:"display_type"`
}

var saleOrderLineFields = []string{"name", "product_id", "product_uom_qty", "price_unit", "display_type"}

// stockPicking maps the outgoing stock.picking records of an order
type stockPicking struct {
	TrackingRef String   `json:"carrier_tracking_ref"`
	TrackingURL String   `json:"carrier_tracking_url"`
	Carrier     Many2One `json:"carrier_id"`
}

var stockPickingFields = []string{"carrier_tracking_ref", "carrier_tracking_url", "carrier_id"}

// splitProductName separates "[SKU] Product name" into its parts
func splitProductName(display string) (sku, title string) {
	display = strings.TrimSpace(display)
	if strings.HasPrefix(display, "[") {
		if end := strings.Index(display, "]"); end > 0 {
			return display[1:end], strings.TrimSpace(display[end+1:])
		}
	}
	return "", display
}

// fulfillmentStatus maps delivery_status onto the Shopify-style vocabulary
func fulfillmentStatus(deliveryStatus string) string {
	switch deliveryStatus {
	case "full":
		return "fulfilled"
	case "partial", "started":
		return "partial"
	}
	return ""
}
