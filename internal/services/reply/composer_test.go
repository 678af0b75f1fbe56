package reply_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelth-com/shopreply/internal/config"
	"github.com/xelth-com/shopreply/internal/models"
	"github.com/xelth-com/shopreply/internal/services/reply"
)

type llmMock struct {
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	calls        int
}

func (m *llmMock) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	return m.CompleteFunc(ctx, systemPrompt, userPrompt)
}

func sampleContext() *models.OrderContext {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.OrderContext{
		OrderNumber:       "#3239",
		FulfillmentStatus: "unfulfilled",
		FinancialStatus:   "paid",
		CreatedAt:         &created,
		LineItems: []models.LineItem{
			{Title: "Linen Tote", Quantity: 2, SKU: "TOTE-01", Price: "24.00"},
		},
		DeliveryWindow: &models.DeliveryWindow{MinDate: "January 20", MaxDate: "January 26"},
	}
}

func TestComposeWithContext(t *testing.T) {
	policy := config.Policy{ShopName: "Fern & Thread", SignOff: "Cheers,\nMara", ExtraGuidelines: []string{"Mention free repairs"}}

	m := &llmMock{CompleteFunc: func(_ context.Context, system, user string) (string, error) {
		assert.Contains(t, system, "Fern & Thread")
		assert.Contains(t, system, "13-18 business days")
		assert.Contains(t, system, "Cheers,\nMara")
		assert.Contains(t, system, "- Mention free repairs")
		assert.Contains(t, system, "- Order number: #3239")
		assert.Contains(t, system, "- Fulfillment status: unfulfilled")
		assert.Contains(t, system, "- Payment status: paid")
		assert.Contains(t, system, "- Order placed: January 1, 2024")
		assert.Contains(t, system, "  - 2 x Linen Tote (SKU TOTE-01) at 24.00")
		assert.Contains(t, system, "- Tracking: not yet available")
		assert.Contains(t, system, "between January 20 and January 26")

		assert.Equal(t, "Email type: order_status\nCustomer email: Where is my pre-order?", user)
		return "  Hi Jane, your order is on its way.  \n", nil
	}}

	c := reply.NewComposer(m, policy)
	out, err := c.Compose(context.Background(), models.CategoryOrderStatus, "Where is my pre-order?", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane, your order is on its way.", out)
	assert.Equal(t, 1, m.calls)
}

func TestComposeWithoutContext(t *testing.T) {
	m := &llmMock{CompleteFunc: func(_ context.Context, system, _ string) (string, error) {
		assert.NotContains(t, system, "ORDER FACTS")
		assert.Contains(t, system, "our shop")
		return "Could you send your order number?", nil
	}}

	c := reply.NewComposer(m, config.DefaultPolicy())
	out, err := c.Compose(context.Background(), models.CategoryOrderStatus, "Where is my order?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Could you send your order number?", out)
}

func TestComposeBackendError(t *testing.T) {
	m := &llmMock{CompleteFunc: func(context.Context, string, string) (string, error) {
		return "", errors.New("upstream exploded: secret-internal-detail")
	}}

	c := reply.NewComposer(m, config.DefaultPolicy())
	_, err := c.Compose(context.Background(), models.CategoryOther, "hello", nil)
	require.Error(t, err)

	var ce *reply.CompositionError
	assert.True(t, errors.As(err, &ce))
	assert.NotContains(t, reply.FallbackReply, "secret-internal-detail")
}

func TestRenderOrderFactsTracking(t *testing.T) {
	oc := &models.OrderContext{
		OrderNumber:       "#1",
		FulfillmentStatus: "fulfilled",
		Tracking:          &models.Tracking{Number: "1Z999", Carrier: "UPS", URL: "https://ups.example/1Z999"},
	}

	facts := reply.RenderOrderFacts(oc)
	assert.Contains(t, facts, "- Tracking number: 1Z999")
	assert.Contains(t, facts, "- Carrier: UPS")
	assert.Contains(t, facts, "- Tracking link: https://ups.example/1Z999")
	assert.NotContains(t, facts, "Payment status")
	assert.NotContains(t, facts, "Order placed")
	assert.NotContains(t, facts, "pre-order delivery")
}
