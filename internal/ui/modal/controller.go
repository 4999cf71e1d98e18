// Package modal はモーダルの開閉とフォーム検証の状態を管理します
package modal

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrUnknownModal は登録されていないモーダルを指定した場合のエラーです
	ErrUnknownModal = errors.New("unknown modal")
	// ErrInvalidForm はフォームに無効な入力がある場合のエラーです
	ErrInvalidForm = errors.New("form has invalid fields")
)

type entry struct {
	form      *Form
	open      bool
	listeners []func()
}

// Controller はモーダルの状態を管理します
// 同時に開けるモーダルは1つだけで、いずれかが開いている間はページのスクロールを止めます
type Controller struct {
	modals map[string]*entry
	// 登録順。Escapeで閉じる対象の探索に使います
	order        []string
	scrollLocked bool
}

// NewController は新しいControllerを作成します
func NewController() *Controller {
	return &Controller{modals: make(map[string]*entry)}
}

// Register はモーダルを登録します。フォームを持たないモーダルは form に nil を渡します
func (c *Controller) Register(id string, form *Form) {
	if _, ok := c.modals[id]; !ok {
		c.order = append(c.order, id)
	}
	c.modals[id] = &entry{form: form}
}

// Form はモーダルのフォームを返します
func (c *Controller) Form(id string) *Form {
	if e, ok := c.modals[id]; ok {
		return e.form
	}
	return nil
}

// OnClose はモーダルが閉じたときに呼ばれる関数を登録します
func (c *Controller) OnClose(id string, fn func()) {
	if e, ok := c.modals[id]; ok {
		e.listeners = append(e.listeners, fn)
	}
}

// IsOpen はモーダルが開いているかどうかを返します
func (c *Controller) IsOpen(id string) bool {
	e, ok := c.modals[id]
	return ok && e.open
}

// Active は開いているモーダルのIDを返します
func (c *Controller) Active() (string, bool) {
	for _, id := range c.order {
		if c.modals[id].open {
			return id, true
		}
	}
	return "", false
}

// ScrollLocked はページのスクロールが止められているかどうかを返します
func (c *Controller) ScrollLocked() bool { return c.scrollLocked }

// Open はモーダルを開きます
// 他に開いているモーダルがあれば先に閉じ、フォームを初期化して最初の欄にフォーカスします
func (c *Controller) Open(id string) error {
	e, ok := c.modals[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModal, id)
	}

	for _, other := range c.order {
		if other != id && c.modals[other].open {
			c.Close(other)
		}
	}

	e.open = true
	if e.form != nil {
		e.form.Reset()
		e.form.focusFirst()
	}
	c.scrollLocked = true
	return nil
}

// Close はモーダルを閉じてフォームを初期化し、閉じたことを通知します
func (c *Controller) Close(id string) {
	e, ok := c.modals[id]
	if !ok {
		log.Printf("Close requested for unknown modal %s", id)
		return
	}

	e.open = false
	if _, anyOpen := c.Active(); !anyOpen {
		c.scrollLocked = false
	}

	if e.form != nil {
		e.form.Reset()
		e.form.focused = ""
	}

	for _, fn := range e.listeners {
		fn()
	}
}

// Dismiss は閉じるボタンが押されたときの処理です
func (c *Controller) Dismiss(id string) {
	c.Close(id)
}

// ClickOverlay はモーダルの背景がクリックされたときの処理です
// クリックされた要素がオーバーレイ自身 (target == id) の場合だけ閉じます
func (c *Controller) ClickOverlay(id, target string) {
	if target != id {
		return
	}
	c.Close(id)
}

// Escape は取り消しキーが押されたときに開いているモーダルを閉じます
func (c *Controller) Escape() {
	if id, ok := c.Active(); ok {
		c.Close(id)
	}
}

// Submit はフォームを検証し、有効なら fn を呼んでモーダルを閉じます
// 無効な欄がある場合はすべての欄にエラーを表示して ErrInvalidForm を返します
func (c *Controller) Submit(id string, fn func(form *Form) error) error {
	e, ok := c.modals[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModal, id)
	}

	if e.form != nil && !e.form.Validate() {
		return ErrInvalidForm
	}

	if err := fn(e.form); err != nil {
		return err
	}

	c.Close(id)
	return nil
}
