package odoo

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/shopreply/internal/commerce"
)

const (
	odooDateLayout = "2006-01-02 15:04:05"
	maxEmailOrders = 1 // newest order only
)

// Config holds Odoo connection settings
type Config struct {
	URL      string
	Database string
	Username string
	Password string
	Timeout  time.Duration
	Location *time.Location // shop timezone for order dates, default UTC
}

// Backend implements commerce.Backend on top of Odoo sales orders
type Backend struct {
	client   *Client
	location *time.Location
}

// NewBackend creates an Odoo commerce backend
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("ODOO_URL is empty")
	}
	if cfg.Database == "" || cfg.Username == "" {
		return nil, fmt.Errorf("odoo database and username are required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Backend{
		client:   NewClient(strings.TrimRight(cfg.URL, "/"), cfg.Database, cfg.Username, cfg.Password, cfg.Timeout),
		location: cfg.Location,
	}, nil
}

// Code returns the backend code
func (b *Backend) Code() string {
	return "odoo"
}

// FindOrderByNumber looks a sale order up by its reference (e.g. "S00042")
func (b *Backend) FindOrderByNumber(ctx context.Context, number string) (*commerce.Order, error) {
	domain := []interface{}{
		[]interface{}{"name", "=", number},
	}

	orders, err := b.searchOrders(ctx, domain, 1)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, commerce.ErrNotFound
	}
	return &orders[0], nil
}

// FindOrdersByEmail returns the partner's newest sale order.
// The email is matched case-insensitively and literally.
func (b *Backend) FindOrdersByEmail(ctx context.Context, email string) ([]commerce.Order, error) {
	domain := []interface{}{
		[]interface{}{"partner_id.email", "=ilike", escapeLike(email)},
	}
	return b.searchOrders(ctx, domain, maxEmailOrders)
}

func (b *Backend) searchOrders(ctx context.Context, domain []interface{}, limit int) ([]commerce.Order, error) {
	var records []saleOrder
	err := b.client.SearchRead(ctx, "sale.order", domain, saleOrderFields, SearchOptions{
		Limit: limit,
		Order: "date_order desc, id desc",
	}, &records)
	if err != nil {
		return nil, err
	}

	orders := make([]commerce.Order, 0, len(records))
	for i, rec := range records {
		order, err := b.hydrate(ctx, rec)
		if err != nil {
			// only the newest order is required; older ones are dropped
			if i == 0 {
				return nil, err
			}
			log.Printf("⚠️ Odoo: skipping order %s: %v", string(rec.Name), err)
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// hydrate loads order lines and outgoing pickings for one sale order
func (b *Backend) hydrate(ctx context.Context, rec saleOrder) (commerce.Order, error) {
	order := commerce.Order{
		Number:            string(rec.Name),
		FulfillmentStatus: fulfillmentStatus(string(rec.DeliveryStatus)),
		FinancialStatus:   string(rec.InvoiceStatus),
	}
	// Odoo stores datetimes in UTC
	if t, err := time.ParseInLocation(odooDateLayout, string(rec.DateOrder), time.UTC); err == nil {
		order.CreatedAt = t.In(b.location)
	}

	var lines []saleOrderLine
	err := b.client.SearchRead(ctx, "sale.order.line", []interface{}{
		[]interface{}{"order_id", "=", rec.ID},
	}, saleOrderLineFields, SearchOptions{Order: "sequence, id"}, &lines)
	if err != nil {
		return order, err
	}
	for _, l := range lines {
		// section and note rows carry no product
		if l.DisplayType != "" {
			continue
		}
		sku, title := splitProductName(l.Product.Name)
		if title == "" {
			title = firstLine(string(l.Name))
		}
		order.LineItems = append(order.LineItems, commerce.LineItem{
			Title:    title,
			Quantity: int(l.Quantity),
			SKU:      sku,
			Price:    strconv.FormatFloat(l.PriceUnit, 'f', 2, 64),
		})
	}

	var pickings []stockPicking
	err = b.client.SearchRead(ctx, "stock.picking", []interface{}{
		[]interface{}{"sale_id", "=", rec.ID},
		[]interface{}{"picking_type_code", "=", "outgoing"},
	}, stockPickingFields, SearchOptions{Order: "id asc"}, &pickings)
	if err != nil {
		return order, err
	}
	for _, p := range pickings {
		order.Fulfillments = append(order.Fulfillments, commerce.Fulfillment{
			TrackingNumber:  string(p.TrackingRef),
			TrackingCompany: p.Carrier.Name,
			TrackingURL:     string(p.TrackingURL),
		})
	}

	return order, nil
}

// escapeLike makes s match literally in a (=)like/ilike domain
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
