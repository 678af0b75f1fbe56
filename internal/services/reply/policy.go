package reply

import (
	"github.com/xelth-com/shopreply/internal/delivery"
	"github.com/xelth-com/shopreply/internal/models"
)

// PreOrderMessage is appended verbatim to pre-order status replies
const PreOrderMessage = "Please note: pre-order items are made in small batches and usually ship " +
	"within 13-18 business days of your order date. As soon as your order leaves our studio " +
	"you'll receive an email with your tracking number. Thank you for your patience and for " +
	"supporting a small business!"

// AppendIfNeeded adds PreOrderMessage, separated by a blank line, to order
// status replies whose email mentions a pre-order
func AppendIfNeeded(reply string, category models.Category, body string) string {
	if category != models.CategoryOrderStatus || !delivery.IsPreOrder(body) {
		return reply
	}
	return reply + "\n\n" + PreOrderMessage
}
