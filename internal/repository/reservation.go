package repository

import (
	"context"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

// ReservationRepository は予約のリポジトリです
type ReservationRepository = Repository[model.Reservation]

// NewReservationRepository は新しいReservationRepositoryを作成します
func NewReservationRepository(ctx context.Context, kv store.KeyValueStore, ids *model.IDGenerator) *ReservationRepository {
	return New[model.Reservation](ctx, kv, store.KeyReservations, ids)
}

// UpdateStatus は予約のステータスを更新します
func UpdateStatus(ctx context.Context, r *ReservationRepository, id int64, status model.ReservationStatus) bool {
	return r.Update(ctx, id, func(reservation *model.Reservation) {
		reservation.Status = status
	})
}
