package repository

import (
	"context"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

// MenuRepository はメニュー項目のリポジトリです
type MenuRepository = Repository[model.MenuItem]

// NewMenuRepository は新しいMenuRepositoryを作成します
func NewMenuRepository(ctx context.Context, kv store.KeyValueStore, ids *model.IDGenerator) *MenuRepository {
	return New[model.MenuItem](ctx, kv, store.KeyMenuItems, ids)
}

// ToggleAvailability はメニュー項目の提供可否を切り替えます
func ToggleAvailability(ctx context.Context, r *MenuRepository, id int64) bool {
	return r.Update(ctx, id, func(item *model.MenuItem) {
		item.Available = !item.Available
	})
}

// FindAvailableByName は提供可能なメニュー項目を名前で探します
func FindAvailableByName(r *MenuRepository, name string) (model.MenuItem, bool) {
	for _, item := range r.List() {
		if item.Available && item.Name == name {
			return item, true
		}
	}
	return model.MenuItem{}, false
}
