package modal

import "log"

// ConfirmFunc は確認メッセージに対して利用者が了承したかどうかを返します
type ConfirmFunc func(message string) bool

// AlwaysConfirm は常に了承する ConfirmFunc です
func AlwaysConfirm(string) bool { return true }

// DialogOptions は確認ダイアログの定義です
type DialogOptions struct {
	ID        string
	Title     string
	Content   string
	OnConfirm func()
	OnCancel  func()
}

// Dialog はフォームを持たない確認用のモーダルです
type Dialog struct {
	c    *Controller
	opts DialogOptions
}

// NewDialog は確認ダイアログを作成して登録します
func NewDialog(c *Controller, opts DialogOptions) *Dialog {
	c.Register(opts.ID, nil)
	return &Dialog{c: c, opts: opts}
}

// ID はダイアログのIDを返します
func (d *Dialog) ID() string { return d.opts.ID }

// Title はダイアログのタイトルを返します
func (d *Dialog) Title() string { return d.opts.Title }

// Content はダイアログの本文を返します
func (d *Dialog) Content() string { return d.opts.Content }

// Open はダイアログを開きます
func (d *Dialog) Open() error { return d.c.Open(d.opts.ID) }

// Confirm は了承ボタンの処理です
func (d *Dialog) Confirm() {
	if d.opts.OnConfirm != nil {
		d.opts.OnConfirm()
	}
	d.c.Close(d.opts.ID)
}

// Cancel は取り消しボタンの処理です
func (d *Dialog) Cancel() {
	if d.opts.OnCancel != nil {
		d.opts.OnCancel()
	}
	d.c.Close(d.opts.ID)
}

// DialogConfirm は確認ダイアログを経由して ask の回答を返す ConfirmFunc を作成します
// ダイアログは開いているモーダルを閉じるので、フォーム入力中には使わないこと
func DialogConfirm(c *Controller, id string, ask func(title, content string) bool) ConfirmFunc {
	return func(message string) bool {
		confirmed := false
		d := NewDialog(c, DialogOptions{
			ID:        id,
			Title:     "Confirm",
			Content:   message,
			OnConfirm: func() { confirmed = true },
			OnCancel:  func() {},
		})
		if err := d.Open(); err != nil {
			log.Printf("Failed to open dialog %s: %v", id, err)
			return false
		}

		if ask(d.Title(), d.Content()) {
			d.Confirm()
		} else {
			d.Cancel()
		}
		return confirmed
	}
}
