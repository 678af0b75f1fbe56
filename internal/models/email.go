package models

import (
	"errors"
	"strings"
)

// ErrInput is returned when an inbound email has no usable body
var ErrInput = errors.New("missing email body")

// Category is the intent label assigned to an inbound email
type Category string

const (
	CategoryOrderStatus   Category = "order_status"
	CategoryReturnRequest Category = "return_request"
	CategoryProductInfo   Category = "product_info"
	CategoryShippingInfo  Category = "shipping_info"
	CategoryOther         Category = "other"
)

// Categories lists the taxonomy in prompt order. "other" stays last.
var Categories = []Category{
	CategoryOrderStatus,
	CategoryReturnRequest,
	CategoryProductInfo,
	CategoryShippingInfo,
	CategoryOther,
}

// IsValid reports whether c belongs to the fixed taxonomy
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps free-form model output onto the taxonomy.
// Unrecognized output becomes CategoryOther, never raw text.
func ParseCategory(raw string) Category {
	s := answerLine(raw)

	if c := Category(s); c.IsValid() {
		return c
	}

	// Closest match: the earliest label written as a whole word. Canonical
	// labels win over spelled-out ones ("order status").
	if c, ok := earliestLabel(s, func(c Category) string { return string(c) }); ok {
		return c
	}
	if c, ok := earliestLabel(s, func(c Category) string { return strings.ReplaceAll(string(c), "_", " ") }); ok {
		return c
	}
	return CategoryOther
}

// answerLine reduces model output to its first meaningful line, lower-cased,
// without markdown fences, quotes or a "category:" prefix
func answerLine(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		// opening fence line may carry an info string ("```text")
		if i := strings.IndexAny(s, "\r\n"); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(strings.Trim(s, "`"))
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "category:")
	return strings.Trim(s, " \t\"'.,;:!*")
}

func earliestLabel(s string, form func(Category) string) (Category, bool) {
	best, bestAt := CategoryOther, -1
	for _, c := range Categories {
		at := indexWord(s, form(c))
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = c, at
		}
	}
	return best, bestAt >= 0
}

// indexWord finds w in s where it is not part of a longer word
func indexWord(s, w string) int {
	for off := 0; off < len(s); {
		i := strings.Index(s[off:], w)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(w)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return i
		}
		off = i + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// InboundEmail is a single customer message to answer. Empty strings mean absent.
type InboundEmail struct {
	Body        string `json:"email_body"`
	SenderEmail string `json:"sender_email,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
}

// Validate checks the request-level precondition on the body
func (e InboundEmail) Validate() error {
	if strings.TrimSpace(e.Body) == "" {
		return ErrInput
	}
	return nil
}

// ComposedReply is the pipeline result for one inbound email
type ComposedReply struct {
	Category    Category      `json:"type"`
	Body        string        `json:"response"`
	ContextUsed *OrderContext `json:"context,omitempty"`
}
