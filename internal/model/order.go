package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus は注文のステータスを表します
// キャンセルされた注文はステータスを持たず、削除されます
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderItem は注文に含まれる1行分の明細です
type OrderItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal は単価×数量を返します
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order は注文のドメインモデルです
type Order struct {
	ID          int64           `json:"id"`
	Items       []OrderItem     `json:"items"`
	TableNumber int             `json:"tableNumber"`
	Status      OrderStatus     `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

func (o Order) EntityID() int64 { return o.ID }

func (o Order) WithID(id int64) Order {
	o.ID = id
	return o
}

// Clone は明細と完了時刻も含めて複製した注文を返します
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	if o.CompletedAt != nil {
		completedAt := *o.CompletedAt
		o.CompletedAt = &completedAt
	}
	return o
}

// NewOrder は明細から合計金額を計算して未処理の注文を作成します
// 合計金額は作成時にのみ計算され、以後は編集されません
func NewOrder(items []OrderItem, tableNumber int, now time.Time) Order {
	copied := make([]OrderItem, len(items))
	copy(copied, items)

	return Order{
		Items:       copied,
		TableNumber: tableNumber,
		Status:      OrderStatusPending,
		Timestamp:   now.Truncate(time.Millisecond),
		Total:       CalculateTotal(copied),
	}
}

// CalculateTotal は明細の小計を合算します
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Complete は注文を完了状態にします
func (o *Order) Complete(now time.Time) {
	completedAt := now.Truncate(time.Millisecond)
	o.Status = OrderStatusCompleted
	o.CompletedAt = &completedAt
}
