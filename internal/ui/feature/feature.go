// Package feature はメニュー・注文・予約の画面操作をリポジトリとモーダルに結び付けます
package feature

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownAction は未知のアクション名を指定した場合のエラーです
var ErrUnknownAction = errors.New("unknown action")

// ChangeHook はデータが変更されたときに呼ばれます (ダッシュボードの再描画など)
type ChangeHook func(ctx context.Context)

// Mode はフォームが新規作成用か編集用かを表します
type Mode struct {
	editing bool
	id      int64
}

// CreateMode は新規作成モードです
func CreateMode() Mode { return Mode{} }

// EditMode は指定したIDの編集モードです
func EditMode(id int64) Mode { return Mode{editing: true, id: id} }

// Editing は編集中であれば対象のIDを返します
func (m Mode) Editing() (int64, bool) { return m.id, m.editing }

func (m Mode) String() string {
	if m.editing {
		return fmt.Sprintf("editing(%d)", m.id)
	}
	return "create"
}

func unknownAction(action string) error {
	return fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

func notify(ctx context.Context, hook ChangeHook) {
	if hook != nil {
		hook(ctx)
	}
}
