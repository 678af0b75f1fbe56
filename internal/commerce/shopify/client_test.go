package shopify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelth-com/shopreply/internal/commerce"
	"github.com/xelth-com/shopreply/internal/commerce/shopify"
)

const orderJSON = `{"orders":[{
  "name":"#3239",
  "order_number":3239,
  "email":"jane@example.com",
  "created_at":"2024-01-01T10:00:00-05:00",
  "financial_status":"paid",
  "fulfillment_status":null,
  "line_items":[{"title":"Linen Tote","quantity":2,"sku":"TOTE-01","price":"24.00"}],
  "fulfillments":[
    {"tracking_number":"1Z999","tracking_company":"UPS","tracking_url":"https://ups.example/1Z999"},
    {"tracking_number":"second","tracking_company":"USPS","tracking_url":""}
  ]
}]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *shopify.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := shopify.NewClient(shopify.Config{
		ShopURL:     srv.URL,
		AccessToken: "shpat_test",
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestFindOrderByNumber(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/orders.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "#3239", r.URL.Query().Get("name"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orderJSON))
	})

	order, err := c.FindOrderByNumber(context.Background(), "3239")
	require.NoError(t, err)

	assert.Equal(t, "#3239", order.Number)
	assert.Equal(t, "paid", order.FinancialStatus)
	assert.Equal(t, "", order.FulfillmentStatus)
	assert.True(t, order.CreatedAt.Equal(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)))
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, commerce.LineItem{Title: "Linen Tote", Quantity: 2, SKU: "TOTE-01", Price: "24.00"}, order.LineItems[0])
	require.Len(t, order.Fulfillments, 2)
	assert.Equal(t, "1Z999", order.Fulfillments[0].TrackingNumber)
}

func TestFindOrderByNumberEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders":[]}`))
	})

	_, err := c.FindOrderByNumber(context.Background(), "#1")
	assert.ErrorIs(t, err, commerce.ErrNotFound)
}

func TestFindOrdersByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "created_at desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(orderJSON))
	})

	orders, err := c.FindOrdersByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "jane@example.com", orders[0].Email)
}

func TestStatusErrors(t *testing.T) {
	cases := []struct {
		status    int
		notFound  bool
		retryable bool
	}{
		{status: http.StatusNotFound, notFound: true},
		{status: http.StatusTooManyRequests, retryable: true},
		{status: http.StatusBadGateway, retryable: true},
		{status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		})

		_, err := c.FindOrderByNumber(context.Background(), "1")
		require.Error(t, err)

		if tc.notFound {
			assert.ErrorIs(t, err, commerce.ErrNotFound)
			continue
		}
		var se *commerce.StatusError
		require.True(t, errors.As(err, &se), "status %d", tc.status)
		assert.Equal(t, tc.status, se.StatusCode)
		assert.Equal(t, tc.retryable, se.Retryable())
	}
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders":`))
	})

	_, err := c.FindOrdersByEmail(context.Background(), "x@example.com")
	assert.Error(t, err)
}

func TestNewClientValidation(t *testing.T) {
	_, err := shopify.NewClient(shopify.Config{AccessToken: "x"})
	assert.Error(t, err)

	_, err = shopify.NewClient(shopify.Config{ShopURL: "shop.myshopify.com"})
	assert.Error(t, err)

	c, err := shopify.NewClient(shopify.Config{ShopURL: "shop.myshopify.com", AccessToken: "x"})
	require.NoError(t, err)
	assert.Equal(t, "shopify", c.Code())
}
