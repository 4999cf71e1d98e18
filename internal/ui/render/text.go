// Package render はCLI向けのテキスト表示を提供します
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/service/dashboard"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/feature"
)

const barWidth = 30

// Compile-time contract assertion
var (
	_ dashboard.Renderer      = (*Text)(nil)
	_ feature.MenuView        = (*Text)(nil)
	_ feature.OrderView       = (*Text)(nil)
	_ feature.ReservationView = (*Text)(nil)
)

// Text は各画面をプレーンテキストで書き出します
type Text struct {
	w   io.Writer
	loc *time.Location
}

// NewText は新しいTextを作成します。時刻は loc で表示します
func NewText(w io.Writer, loc *time.Location) *Text {
	if loc == nil {
		loc = time.Local
	}
	return &Text{w: w, loc: loc}
}

// Money は金額を "$12.50" の形式にします
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (t *Text) printf(format string, args ...any) {
	fmt.Fprintf(t.w, format, args...)
}

func (t *Text) clock(ts time.Time) string {
	return ts.In(t.loc).Format("15:04")
}

// RenderMenu はカテゴリごとにメニュー項目を書き出します
func (t *Text) RenderMenu(groups []feature.MenuGroup) {
	if len(groups) == 0 {
		t.printf("No menu items.\n")
		return
	}
	for _, g := range groups {
		t.printf("== %s ==\n", g.Title)
		for _, item := range g.Items {
			t.printf("  [%d] %s  %s  (%s)  %s\n", item.ID, item.Name, Money(item.Price), item.Category, feature.AvailabilityLabel(item))
			if item.Description != "" {
				t.printf("      %s\n", item.Description)
			}
		}
	}
}

// RenderOrders は未処理と完了の注文を書き出します
func (t *Text) RenderOrders(active, completed []model.Order) {
	t.printf("== Active Orders ==\n")
	for _, o := range active {
		t.order(o)
	}
	t.printf("== Completed Orders ==\n")
	for _, o := range completed {
		t.order(o)
	}
}

func (t *Text) order(o model.Order) {
	t.printf("  [%d] Table %d  %s  %s\n", o.ID, o.TableNumber, t.clock(o.Timestamp), o.Status)
	for _, item := range o.Items {
		t.printf("      %dx %s  %s\n", item.Quantity, item.Name, Money(item.Subtotal()))
	}
	t.printf("      Total: %s\n", Money(o.Total))
}

// RenderReservations は予約を書き出します
func (t *Text) RenderReservations(reservations []model.Reservation) {
	if len(reservations) == 0 {
		t.printf("No reservations.\n")
		return
	}
	for _, r := range reservations {
		dt := r.DateTime.In(t.loc)
		t.printf("  [%d] %s  %s at %s  Guests: %d  Phone: %s  %s\n",
			r.ID, r.Name, dt.Format("2006-01-02"), dt.Format("15:04"), r.Guests, r.Phone, r.Status)
		if r.Requests != "" {
			t.printf("      Special Requests: %s\n", r.Requests)
		}
	}
}

// RenderDashboard はダッシュボードの集計結果を書き出します
func (t *Text) RenderDashboard(s dashboard.Stats) {
	t.printf("== Dashboard (%s) ==\n", s.GeneratedAt.In(t.loc).Format("2006-01-02 15:04"))
	t.printf("Today's reservations: %d\n", s.ReservationsToday)
	t.printf("Active orders:        %d\n", s.PendingOrders)
	t.printf("Available menu items: %d\n", s.AvailableMenuItems)
	t.printf("Today's revenue:      %s\n", Money(s.TodayRevenue))
	t.printf("This week's revenue:  %s\n", Money(s.WeekRevenue))

	t.printf("-- Popular Items --\n")
	for _, p := range s.PopularItems {
		t.printf("  %s  %d orders\n", p.Name, p.Quantity)
	}

	t.printf("-- Revenue (7 days) --\n")
	t.chart(dashboard.RevenueChart(s.DailyRevenue), func(b dashboard.Bar) string {
		return Money(decimal.NewFromFloat(b.Value))
	})

	t.printf("-- Orders by hour --\n")
	t.chart(dashboard.OrdersChart(s.HourlyOrders), func(b dashboard.Bar) string {
		return fmt.Sprintf("%.0f", b.Value)
	})
}

func (t *Text) chart(bars []dashboard.Bar, value func(dashboard.Bar) string) {
	for _, b := range bars {
		t.printf("  %-10s %s %s\n", b.Label, Bar(b.Height, barWidth), value(b))
	}
}

// Bar は高さ(%)を幅 width の棒にします
func Bar(height float64, width int) string {
	n := int(height / 100 * float64(width))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}
