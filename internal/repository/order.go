package repository

import (
	"context"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

// OrderRepository は注文のリポジトリです
type OrderRepository = Repository[model.Order]

// NewOrderRepository は新しいOrderRepositoryを作成します
func NewOrderRepository(ctx context.Context, kv store.KeyValueStore, ids *model.IDGenerator) *OrderRepository {
	return New[model.Order](ctx, kv, store.KeyOrders, ids)
}

// CompleteOrder は注文を完了にします
func CompleteOrder(ctx context.Context, r *OrderRepository, id int64, now time.Time) bool {
	return r.Update(ctx, id, func(order *model.Order) {
		order.Complete(now)
	})
}

// CancelOrder は注文を取り消します (キャンセルした注文は残しません)
func CancelOrder(ctx context.Context, r *OrderRepository, id int64) bool {
	return r.Delete(ctx, id)
}
