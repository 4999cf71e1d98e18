package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/service/dashboard"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/feature"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0.00"},
		{in: "12.5", want: "$12.50"},
		{in: "3.456", want: "$3.46"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "##########", Bar(100, 10))
	assert.Equal(t, "#####.....", Bar(50, 10))
	assert.Equal(t, "..........", Bar(0, 10))
	assert.Equal(t, "##########", Bar(150, 10))
}

func TestText_RenderMenu(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, time.UTC)

	r.RenderMenu(feature.GroupMenu([]model.MenuItem{
		{ID: 1, Name: "Margherita", Price: decimal.RequireFromString("12.5"), Category: model.MenuCategoryMains, Available: true},
		{ID: 2, Name: "Cola", Price: decimal.NewFromInt(2), Category: model.MenuCategoryDrinks},
	}))

	out := buf.String()
	assert.Contains(t, out, "== Mains ==")
	assert.Contains(t, out, "[1] Margherita  $12.50  (mains)  Mark Unavailable")
	assert.Contains(t, out, "[2] Cola  $2.00  (drinks)  Mark Available")
}

func TestText_RenderOrders(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, time.UTC)
	ts := time.Date(2025, 4, 1, 9, 5, 0, 0, time.UTC)
	o := model.NewOrder([]model.OrderItem{{Name: "Soup", Price: decimal.RequireFromString("4.5"), Quantity: 2}}, 3, ts)

	r.RenderOrders([]model.Order{o}, nil)

	out := buf.String()
	assert.Contains(t, out, "Table 3  09:05  pending")
	assert.Contains(t, out, "2x Soup  $9.00")
	assert.Contains(t, out, "Total: $9.00")
}

func TestText_RenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, time.UTC)
	now := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	stats := dashboard.Compute(dashboard.Snapshot{
		Orders: []model.Order{
			model.NewOrder([]model.OrderItem{{Name: "Soup", Price: decimal.NewFromInt(5), Quantity: 2}}, 1, now.Add(-time.Hour)),
		},
	}, now)

	r.RenderDashboard(stats)

	out := buf.String()
	assert.Contains(t, out, "Today's revenue:      $10.00")
	assert.Contains(t, out, "Soup  2 orders")
	assert.Contains(t, out, "11:00")
}
