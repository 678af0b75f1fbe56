package ordercontext

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xelth-com/shopreply/internal/commerce"
	"github.com/xelth-com/shopreply/internal/models"
)

// Resolver turns an order id or customer email into a normalized OrderContext.
// Lookups are best effort: every failure degrades to a nil context.
type Resolver struct {
	backend commerce.Backend
	timeout time.Duration
}

// NewResolver creates a resolver over the given commerce backend.
// A nil backend yields a resolver that never finds anything.
func NewResolver(backend commerce.Backend, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{backend: backend, timeout: timeout}
}

// Resolve looks up by order id first, then by customer email.
// It never returns an error; nil means no grounding is available.
func (r *Resolver) Resolve(ctx context.Context, orderID, customerEmail string) *models.OrderContext {
	orderID = NormalizeOrderID(orderID)
	customerEmail = strings.TrimSpace(customerEmail)

	if orderID == "" && customerEmail == "" {
		return nil
	}
	if r.backend == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	order, err := r.lookup(ctx, orderID, customerEmail)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			log.Printf("🔎 Order lookup: nothing found (order=%q email=%q)", orderID, customerEmail)
		} else {
			log.Printf("⚠️ Order lookup failed on %s: %v", r.backend.Code(), err)
		}
		return nil
	}

	oc, ok := Normalize(order)
	if !ok {
		log.Printf("⚠️ Order lookup: malformed order from %s, ignoring", r.backend.Code())
		return nil
	}
	return oc
}

func (r *Resolver) lookup(ctx context.Context, orderID, email string) (order *commerce.Order, err error) {
	// never raises, not even on a panicking client
	defer func() {
		if p := recover(); p != nil {
			order, err = nil, errors.New("backend panicked during lookup")
			log.Printf("❌ Order lookup panic: %v", p)
		}
	}()

	if orderID != "" {
		return r.backend.FindOrderByNumber(ctx, orderID)
	}

	orders, err := r.backend.FindOrdersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, commerce.ErrNotFound
	}
	return &orders[0], nil
}

// NormalizeOrderID trims whitespace and a leading "#"
func NormalizeOrderID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "#")
	return strings.TrimSpace(id)
}

// Normalize converts a backend order into an OrderContext.
// It reports false for orders too malformed to ground a reply.
func Normalize(order *commerce.Order) (*models.OrderContext, bool) {
	if order == nil || strings.TrimSpace(order.Number) == "" {
		return nil, false
	}

	oc := &models.OrderContext{
		OrderNumber:       strings.TrimSpace(order.Number),
		FulfillmentStatus: order.FulfillmentStatus,
		FinancialStatus:   order.FinancialStatus,
		LineItems:         make([]models.LineItem, 0, len(order.LineItems)),
	}
	if oc.FulfillmentStatus == "" {
		oc.FulfillmentStatus = models.DefaultFulfillmentStatus
	}
	if !order.CreatedAt.IsZero() {
		created := order.CreatedAt
		oc.CreatedAt = &created
	}

	for _, li := range order.LineItems {
		oc.LineItems = append(oc.LineItems, models.LineItem{
			Title:    li.Title,
			Quantity: li.Quantity,
			SKU:      li.SKU,
			Price:    li.Price,
		})
	}

	// Only the first fulfillment record is considered
	if len(order.Fulfillments) > 0 && order.Fulfillments[0].TrackingNumber != "" {
		f := order.Fulfillments[0]
		oc.Tracking = &models.Tracking{
			Number:  f.TrackingNumber,
			Carrier: f.TrackingCompany,
			URL:     f.TrackingURL,
		}
	}

	return oc, true
}
