package delivery

import (
	"strings"
	"time"

	"github.com/xelth-com/shopreply/internal/models"
)

const (
	// MinDays and MaxDays are calendar days added to the order date.
	MinDays = 19
	MaxDays = 25

	// Advertised business-day range for pre-orders. Informational only,
	// the computed window always uses MinDays/MaxDays.
	AdvertisedMinBusinessDays = 13
	AdvertisedMaxBusinessDays = 18

	// DateLayout renders window dates as "January 20"
	DateLayout = "January 2"
)

// Window is an estimated delivery range
type Window struct {
	Min time.Time
	Max time.Time
}

// Estimate computes the pre-order delivery window for an order created at createdAt
func Estimate(createdAt time.Time) Window {
	return Window{
		Min: createdAt.AddDate(0, 0, MinDays),
		Max: createdAt.AddDate(0, 0, MaxDays),
	}
}

// Format renders the window in the reply-facing representation
func (w Window) Format() *models.DeliveryWindow {
	return &models.DeliveryWindow{
		MinDate: w.Min.Format(DateLayout),
		MaxDate: w.Max.Format(DateLayout),
	}
}

// IsPreOrder reports whether the email text mentions a pre-order.
// Plain case-insensitive substring match; a placeholder until there is a
// real signal (order tags or product metadata) to key on.
func IsPreOrder(body string) bool {
	return strings.Contains(strings.ToLower(body), "pre-order")
}

// AppliesTo reports whether a delivery window belongs in the context for this request
func AppliesTo(category models.Category, body string, oc *models.OrderContext) bool {
	return category == models.CategoryOrderStatus &&
		IsPreOrder(body) &&
		oc != nil &&
		oc.CreatedAt != nil
}

// Apply sets the delivery window on oc when AppliesTo holds, and clears it otherwise
func Apply(category models.Category, body string, oc *models.OrderContext) {
	if oc == nil {
		return
	}
	if !AppliesTo(category, body, oc) {
		oc.DeliveryWindow = nil
		return
	}
	oc.DeliveryWindow = Estimate(*oc.CreatedAt).Format()
}
