package repository

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"sync"

	"github.com/uma-arai/sbcntr-restaurant/internal/common/utils"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/store"
)

// Entity はリポジトリで管理できるドメインモデルの制約です
type Entity[T any] interface {
	EntityID() int64
	WithID(id int64) T
	Clone() T
}

// Repository は1種類のエンティティを所有し、変更のたびにコレクション全体をストアへ書き込みます
// 永続ストアが使えなくなった場合は、そのセッション中はメモリ上だけで動作を続けます
type Repository[T Entity[T]] struct {
	mu       sync.RWMutex
	key      string
	kv       store.KeyValueStore
	ids      *model.IDGenerator
	items    []T
	degraded bool
}

// New はストアからコレクションを読み込んでリポジトリを作成します
// キーが存在しない場合や内容が壊れている場合は空のコレクションとして扱います
func New[T Entity[T]](ctx context.Context, kv store.KeyValueStore, key string, ids *model.IDGenerator) *Repository[T] {
	r := &Repository[T]{
		key:   key,
		kv:    kv,
		ids:   ids,
		items: []T{},
	}
	r.load(ctx)
	return r
}

func (r *Repository[T]) load(ctx context.Context) {
	ctx, end := utils.StartSubsegment(ctx, "Repository.load")
	defer end(nil)

	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		log.Printf("Failed to load %s, continuing in memory only: %v", r.key, err)
		r.degraded = true
		return
	}
	if !ok {
		return
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("Stored %s is malformed, starting empty: %v", r.key, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	for _, item := range items {
		r.ids.Observe(item.EntityID())
	}
	r.items = items
}

// Key はストア上のキーを返します
func (r *Repository[T]) Key() string { return r.key }

// Degraded はメモリ上だけで動作しているかどうかを返します
func (r *Repository[T]) Degraded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.degraded
}

// List はコレクションのスナップショットを返します
func (r *Repository[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]T, len(r.items))
	for i, item := range r.items {
		items[i] = item.Clone()
	}
	return items
}

// Get は指定されたIDのエンティティを返します
func (r *Repository[T]) Get(id int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Create は新しいIDを採番してエンティティを追加し、保存したエンティティを返します
func (r *Repository[T]) Create(ctx context.Context, draft T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := draft.Clone().WithID(r.ids.Next())
	r.items = append(r.items, created)
	r.persist(ctx)
	return created.Clone()
}

// Update は指定されたIDのエンティティに mutate を適用して保存します
// IDが存在しない場合は何もせず false を返します
func (r *Repository[T]) Update(ctx context.Context, id int64, mutate func(*T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	updated := r.items[i].Clone()
	mutate(&updated)
	// IDは書き換えさせない
	r.items[i] = updated.WithID(id)
	r.persist(ctx)
	return true
}

// Delete は指定されたIDのエンティティを削除して保存します
// IDが存在しない場合は何もせず、ストアへの書き込みも行いません
func (r *Repository[T]) Delete(ctx context.Context, id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	r.items = slices.Delete(r.items, i, i+1)
	r.persist(ctx)
	return true
}

func (r *Repository[T]) indexOf(id int64) int {
	return slices.IndexFunc(r.items, func(item T) bool { return item.EntityID() == id })
}

// persist はコレクション全体をストアへ書き込みます (r.mu を保持した状態で呼ぶこと)
func (r *Repository[T]) persist(ctx context.Context) {
	if r.degraded {
		return
	}

	ctx, end := utils.StartSubsegment(ctx, "Repository.persist")
	var err error
	defer func() { end(err) }()

	b, err := json.Marshal(r.items)
	if err != nil {
		log.Printf("Failed to marshal %s: %v", r.key, err)
		return
	}

	if err = r.kv.Set(ctx, r.key, b); err != nil {
		log.Printf("Failed to save %s, continuing in memory only: %v", r.key, err)
		r.degraded = true
	}
}
