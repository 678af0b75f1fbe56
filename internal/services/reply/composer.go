package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/xelth-com/shopreply/internal/ai"
	"github.com/xelth-com/shopreply/internal/config"
	"github.com/xelth-com/shopreply/internal/delivery"
	"github.com/xelth-com/shopreply/internal/models"
)

// FallbackReply is what the customer-facing boundary returns when drafting fails
const FallbackReply = "We're sorry, we couldn't prepare a response to your message right now. " +
	"A member of our team will get back to you personally as soon as possible."

// CompositionError is a failed reply-drafting backend call
type CompositionError struct {
	Err error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose reply: %v", e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

// Composer drafts reply text grounded on optional order facts
type Composer struct {
	llm    ai.TextGenerator
	policy config.Policy
}

// NewComposer creates a composer with the shop's policy settings
func NewComposer(llm ai.TextGenerator, policy config.Policy) *Composer {
	return &Composer{llm: llm, policy: policy}
}

// Compose issues exactly one backend call for the draft
func (c *Composer) Compose(ctx context.Context, category models.Category, body string, oc *models.OrderContext) (string, error) {
	system := c.SystemPrompt(oc)
	user := fmt.Sprintf("Email type: %s\nCustomer email: %s", category, body)

	text, err := c.llm.Complete(ctx, system, user)
	if err != nil {
		return "", &CompositionError{Err: err}
	}
	return strings.TrimSpace(text), nil
}

// SystemPrompt builds the instruction: fixed policy plus, when present, the order facts
func (c *Composer) SystemPrompt(oc *models.OrderContext) string {
	var extra string
	if len(c.policy.ExtraGuidelines) > 0 {
		var sb strings.Builder
		for _, g := range c.policy.ExtraGuidelines {
			sb.WriteString("- ")
			sb.WriteString(strings.TrimSpace(g))
			sb.WriteString("\n")
		}
		extra = "\n### SHOP GUIDELINES\n" + sb.String()
	}

	prompt := fmt.Sprintf(ai.ComposerSystemPrompt,
		c.policy.ShopName,
		delivery.AdvertisedMinBusinessDays,
		delivery.AdvertisedMaxBusinessDays,
		c.policy.SignOff,
		extra,
	)

	if oc != nil {
		prompt += ai.OrderFactsHeader + RenderOrderFacts(oc)
	}
	return prompt
}

// RenderOrderFacts lists the context fields one per line.
// Only enumerated fields are rendered, never the raw backend record.
func RenderOrderFacts(oc *models.OrderContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "- Order number: %s\n", oc.OrderNumber)
	fmt.Fprintf(&sb, "- Fulfillment status: %s\n", oc.FulfillmentStatus)
	if oc.FinancialStatus != "" {
		fmt.Fprintf(&sb, "- Payment status: %s\n", oc.FinancialStatus)
	}
	if oc.CreatedAt != nil {
		fmt.Fprintf(&sb, "- Order placed: %s\n", oc.CreatedAt.Format("January 2, 2006"))
	}

	if len(oc.LineItems) > 0 {
		sb.WriteString("- Items:\n")
		for _, li := range oc.LineItems {
			fmt.Fprintf(&sb, "  - %d x %s", li.Quantity, li.Title)
			if li.SKU != "" {
				fmt.Fprintf(&sb, " (SKU %s)", li.SKU)
			}
			if li.Price != "" {
				fmt.Fprintf(&sb, " at %s", li.Price)
			}
			sb.WriteString("\n")
		}
	}

	if oc.Tracking != nil {
		fmt.Fprintf(&sb, "- Tracking number: %s\n", oc.Tracking.Number)
		if oc.Tracking.Carrier != "" {
			fmt.Fprintf(&sb, "- Carrier: %s\n", oc.Tracking.Carrier)
		}
		if oc.Tracking.URL != "" {
			fmt.Fprintf(&sb, "- Tracking link: %s\n", oc.Tracking.URL)
		}
	} else {
		sb.WriteString("- Tracking: not yet available\n")
	}

	if oc.DeliveryWindow != nil {
		fmt.Fprintf(&sb, "- Estimated pre-order delivery: between %s and %s\n",
			oc.DeliveryWindow.MinDate, oc.DeliveryWindow.MaxDate)
	}

	return sb.String()
}
