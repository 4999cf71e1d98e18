// Package store は名前付きのJSONコレクションを保存するキーバリューストアを提供します
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// 各コレクションの保存キー
const (
	KeyMenuItems    = "menuItems"
	KeyOrders       = "orders"
	KeyReservations = "reservations"
)

// ErrUnavailable はストアが利用できない場合のエラーです
var ErrUnavailable = errors.New("store unavailable")

// KeyValueStore はキーごとにJSON値を保存するストアのインターフェースです
// 存在しないキーは ok=false で返し、エラーにはしません
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Close() error
}
