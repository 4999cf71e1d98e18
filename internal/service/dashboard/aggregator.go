// Package dashboard はダッシュボードの集計と定期更新を扱います
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
)

const (
	// DefaultTopN は人気メニューの表示件数です
	DefaultTopN = 5
	// RevenueChartDays は売上チャートの日数です
	RevenueChartDays = 7
)

// ItemCount はメニュー名ごとの注文数量です
type ItemCount struct {
	Name     string
	Quantity int
}

// DayRevenue は1日分の売上です
type DayRevenue struct {
	Date    time.Time
	Revenue decimal.Decimal
}

// Snapshot は集計対象となる各コレクションのスナップショットです
type Snapshot struct {
	MenuItems    []model.MenuItem
	Orders       []model.Order
	Reservations []model.Reservation
}

// Stats はダッシュボードに表示する集計結果です
type Stats struct {
	GeneratedAt        time.Time
	ReservationsToday  int
	PendingOrders      int
	AvailableMenuItems int
	TodayRevenue       decimal.Decimal
	WeekRevenue        decimal.Decimal
	PopularItems       []ItemCount
	DailyRevenue       []DayRevenue
	HourlyOrders       [24]int
}

// Compute はスナップショットから表示用の集計結果を作成します
func Compute(s Snapshot, now time.Time) Stats {
	return Stats{
		GeneratedAt:        now,
		ReservationsToday:  CountToday(s.Reservations, now),
		PendingOrders:      CountPending(s.Orders),
		AvailableMenuItems: CountAvailable(s.MenuItems),
		TodayRevenue:       RevenueSince(s.Orders, StartOfDay(now)),
		WeekRevenue:        RevenueSince(s.Orders, StartOfWeek(now)),
		PopularItems:       PopularItems(s.Orders, DefaultTopN),
		DailyRevenue:       DailyRevenueHistogram(s.Orders, RevenueChartDays, now),
		HourlyOrders:       HourlyOrderHistogram(s.Orders, now.Location()),
	}
}

// CountAvailable は提供可能なメニュー項目の数を返します
func CountAvailable(items []model.MenuItem) int {
	n := 0
	for _, item := range items {
		if item.Available {
			n++
		}
	}
	return n
}

// CountPending は未処理の注文の数を返します
func CountPending(orders []model.Order) int {
	n := 0
	for _, order := range orders {
		if order.Status == model.OrderStatusPending {
			n++
		}
	}
	return n
}

// CountToday は now と同じ日付の予約の数を返します (ステータスは問いません)
func CountToday(reservations []model.Reservation, now time.Time) int {
	y, m, d := now.Date()
	n := 0
	for _, r := range reservations {
		ry, rm, rd := r.DateTime.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			n++
		}
	}
	return n
}

// StartOfDay は now と同じ日の0時を返します
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// StartOfWeek は直近の日曜日の0時を返します
func StartOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
}

// RevenueSince は cutoff 以降に作成された注文の合計金額を返します
// キャンセルされた注文は削除済みなので、完了・未処理の両方が含まれます
func RevenueSince(orders []model.Order, cutoff time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, order := range orders {
		if !order.Timestamp.Before(cutoff) {
			sum = sum.Add(order.Total)
		}
	}
	return sum
}

// PopularItems はメニュー名ごとの数量を合算し、多い順に topN 件を返します
// 数量が同じ場合は最初に現れた順を保ちます
func PopularItems(orders []model.Order, topN int) []ItemCount {
	index := make(map[string]int)
	counts := []ItemCount{}
	for _, order := range orders {
		for _, item := range order.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(counts)
				index[item.Name] = i
				counts = append(counts, ItemCount{Name: item.Name})
			}
			counts[i].Quantity += item.Quantity
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Quantity > counts[j].Quantity
	})

	if topN >= 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// DailyRevenueHistogram は直近 days 日分の日別売上を古い順に返します
// 各日の範囲は 00:00:00.000 から 23:59:59.999 までです
func DailyRevenueHistogram(orders []model.Order, days int, now time.Time) []DayRevenue {
	if days <= 0 {
		return []DayRevenue{}
	}

	y, m, d := now.Date()
	loc := now.Location()
	buckets := make([]DayRevenue, days)
	for i := range buckets {
		offset := days - 1 - i
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end := time.Date(y, m, d-offset, 23, 59, 59, int(999*time.Millisecond), loc)

		sum := decimal.Zero
		for _, order := range orders {
			if !order.Timestamp.Before(start) && !order.Timestamp.After(end) {
				sum = sum.Add(order.Total)
			}
		}
		buckets[i] = DayRevenue{Date: start, Revenue: sum}
	}
	return buckets
}

// HourlyOrderHistogram は全期間の注文を作成時刻の時間帯 (0-23時) ごとに数えます
func HourlyOrderHistogram(orders []model.Order, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.Local
	}
	var hist [24]int
	for _, order := range orders {
		hist[order.Timestamp.In(loc).Hour()]++
	}
	return hist
}

// BarHeights は最大値を100とした各値の高さ(%)を返します
// 最大値が0以下の場合はすべて0になります
func BarHeights(values []float64) []float64 {
	heights := make([]float64, len(values))
	maxValue := 0.0
	for _, v := range values {
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue <= 0 {
		return heights
	}
	for i, v := range values {
		if v > 0 {
			heights[i] = v / maxValue * 100
		}
	}
	return heights
}
