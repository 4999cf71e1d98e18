package dashboard

import "fmt"

// Bar はチャートの1本分です
type Bar struct {
	Label  string
	Value  float64
	Height float64
}

// RevenueChart は日別売上をチャート用のバーに変換します
func RevenueChart(days []DayRevenue) []Bar {
	values := make([]float64, len(days))
	for i, day := range days {
		values[i] = day.Revenue.InexactFloat64()
	}
	heights := BarHeights(values)

	bars := make([]Bar, len(days))
	for i, day := range days {
		bars[i] = Bar{
			Label:  day.Date.Format("Mon 01/02"),
			Value:  values[i],
			Height: heights[i],
		}
	}
	return bars
}

// OrdersChart は時間帯別の注文数をチャート用のバーに変換します
func OrdersChart(hourly [24]int) []Bar {
	values := make([]float64, len(hourly))
	for i, n := range hourly {
		values[i] = float64(n)
	}
	heights := BarHeights(values)

	bars := make([]Bar, len(hourly))
	for i := range hourly {
		bars[i] = Bar{
			Label:  fmt.Sprintf("%d:00", i),
			Value:  values[i],
			Height: heights[i],
		}
	}
	return bars
}
