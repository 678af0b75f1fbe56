package delivery

import (
	"testing"
	"time"

	"github.com/xelth-com/shopreply/internal/models"
)

func TestEstimate(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	w := Estimate(created)

	if want := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC); !w.Min.Equal(want) {
		t.Errorf("Min mismatch: got %v, want %v", w.Min, want)
	}
	if want := time.Date(2024, 1, 26, 9, 30, 0, 0, time.UTC); !w.Max.Equal(want) {
		t.Errorf("Max mismatch: got %v, want %v", w.Max, want)
	}

	f := w.Format()
	if f.MinDate != "January 20" || f.MaxDate != "January 26" {
		t.Errorf("Format mismatch: got %s / %s", f.MinDate, f.MaxDate)
	}
}

func TestEstimateCalendarDays(t *testing.T) {
	// Month and year boundaries, leap day, and a weekend start
	dates := []time.Time{
		time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600)),
	}

	for _, d := range dates {
		w := Estimate(d)
		if w.Min.After(w.Max) {
			t.Errorf("%v: min %v after max %v", d, w.Min, w.Max)
		}
		if got := w.Min.Sub(d); got != MinDays*24*time.Hour {
			t.Errorf("%v: min offset %v", d, got)
		}
		if got := w.Max.Sub(d); got != MaxDays*24*time.Hour {
			t.Errorf("%v: max offset %v", d, got)
		}
	}

	leap := Estimate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).Format()
	if leap.MinDate != "February 29" {
		t.Errorf("Leap year min: got %s", leap.MinDate)
	}
}

func TestIsPreOrder(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"it was a pre-order", true},
		{"My PRE-ORDER hasn't arrived", true},
		{"Pre-Order #12", true},
		{"preorder without hyphen", false},
		{"where is my order", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPreOrder(tt.body); got != tt.want {
			t.Errorf("IsPreOrder(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("order status pre-order", func(t *testing.T) {
		oc := &models.OrderContext{CreatedAt: &created}
		Apply(models.CategoryOrderStatus, "Where is my pre-order?", oc)
		if oc.DeliveryWindow == nil {
			t.Fatal("expected delivery window")
		}
		if oc.DeliveryWindow.MinDate != "January 20" || oc.DeliveryWindow.MaxDate != "January 26" {
			t.Errorf("unexpected window: %+v", oc.DeliveryWindow)
		}
	})

	t.Run("other category", func(t *testing.T) {
		oc := &models.OrderContext{CreatedAt: &created}
		Apply(models.CategoryShippingInfo, "Where is my pre-order?", oc)
		if oc.DeliveryWindow != nil {
			t.Errorf("window should be absent for shipping_info")
		}
	})

	t.Run("no pre-order mention", func(t *testing.T) {
		oc := &models.OrderContext{CreatedAt: &created}
		Apply(models.CategoryOrderStatus, "Where is my order?", oc)
		if oc.DeliveryWindow != nil {
			t.Errorf("window should be absent without pre-order")
		}
	})

	t.Run("unknown creation date", func(t *testing.T) {
		oc := &models.OrderContext{}
		Apply(models.CategoryOrderStatus, "pre-order status?", oc)
		if oc.DeliveryWindow != nil {
			t.Errorf("window should be absent without createdAt")
		}
	})

	t.Run("nil context", func(t *testing.T) {
		Apply(models.CategoryOrderStatus, "pre-order status?", nil)
	})
}
