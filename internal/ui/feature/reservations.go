package feature

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/modal"
)

// ReservationModalID は予約フォームのモーダルIDです
const ReservationModalID = "reservation-modal"

// 予約のアクション名 (編集は ActionEdit、取り消しは ActionCancel と共通)
const (
	ActionConfirm = "confirm"
)

// ReservationView は予約一覧を表示します
type ReservationView interface {
	RenderReservations(reservations []model.Reservation)
}

// ReservationController は予約画面の操作を扱います
type ReservationController struct {
	repo     *repository.ReservationRepository
	modals   *modal.Controller
	view     ReservationView
	onChange ChangeHook
	loc      *time.Location
	mode     Mode
}

// NewReservationController は予約フォームを登録して ReservationController を作成します
// 日時の入力は loc の現地時刻として解釈します
func NewReservationController(repo *repository.ReservationRepository, modals *modal.Controller, view ReservationView, loc *time.Location, onChange ChangeHook) *ReservationController {
	if loc == nil {
		loc = time.Local
	}

	modals.Register(ReservationModalID, modal.NewForm(
		modal.Field{Name: "name", Kind: modal.KindText, Required: true},
		modal.Field{Name: "guests", Kind: modal.KindInteger, Required: true, Rules: "min=1,max=50"},
		modal.Field{Name: "datetime", Kind: modal.KindDateTime, Required: true},
		modal.Field{Name: "phone", Kind: modal.KindText, Required: true, Rules: "phone"},
		modal.Field{Name: "requests", Kind: modal.KindText},
	))

	c := &ReservationController{
		repo:     repo,
		modals:   modals,
		view:     view,
		onChange: onChange,
		loc:      loc,
	}
	modals.OnClose(ReservationModalID, func() { c.mode = CreateMode() })
	return c
}

// Mode は現在のフォームのモードを返します
func (c *ReservationController) Mode() Mode { return c.mode }

// Form は予約フォームを返します
func (c *ReservationController) Form() *modal.Form { return c.modals.Form(ReservationModalID) }

// OpenCreate は新規予約用にフォームを開きます
func (c *ReservationController) OpenCreate() error {
	if err := c.modals.Open(ReservationModalID); err != nil {
		return err
	}
	c.mode = CreateMode()
	return nil
}

// Edit は既存の予約でフォームを埋めて開きます。IDが存在しない場合は何もしません
func (c *ReservationController) Edit(id int64) error {
	r, ok := c.repo.Get(id)
	if !ok {
		return nil
	}
	if err := c.modals.Open(ReservationModalID); err != nil {
		return err
	}
	c.mode = EditMode(id)
	c.Form().Fill(map[string]string{
		"name":     r.Name,
		"guests":   strconv.Itoa(r.Guests),
		"datetime": r.DateTime.In(c.loc).Format(model.DateTimeLocalLayout),
		"phone":    r.Phone,
		"requests": r.Requests,
	})
	return nil
}

// Submit はフォームの内容で予約を作成または更新します
// 編集時はステータスを変更しません
func (c *ReservationController) Submit(ctx context.Context) error {
	err := c.modals.Submit(ReservationModalID, func(form *modal.Form) error {
		guests, err := form.Int("guests")
		if err != nil {
			return err
		}
		dateTime, err := form.Time("datetime", c.loc)
		if err != nil {
			return err
		}
		name := form.Text("name")
		phone := form.Text("phone")
		requests := form.Text("requests")

		if id, editing := c.mode.Editing(); editing {
			c.repo.Update(ctx, id, func(r *model.Reservation) {
				r.Name = name
				r.Guests = guests
				r.DateTime = dateTime
				r.Phone = phone
				r.Requests = requests
			})
			return nil
		}

		c.repo.Create(ctx, model.NewReservation(name, guests, dateTime, phone, requests))
		return nil
	})
	if err != nil {
		return err
	}

	c.changed(ctx)
	return nil
}

// Handle は一覧上のアクションを実行します。IDが存在しない場合は何もしません
func (c *ReservationController) Handle(ctx context.Context, action string, id int64) error {
	switch action {
	case ActionConfirm:
		c.setStatus(ctx, id, model.ReservationStatusConfirmed)
	case ActionCancel:
		c.setStatus(ctx, id, model.ReservationStatusCancelled)
	case ActionEdit:
		return c.Edit(id)
	default:
		return unknownAction(action)
	}
	return nil
}

func (c *ReservationController) setStatus(ctx context.Context, id int64, status model.ReservationStatus) {
	if repository.UpdateStatus(ctx, c.repo, id, status) {
		c.changed(ctx)
	}
}

// Render は予約を日時の昇順で表示します
func (c *ReservationController) Render() {
	if c.view != nil {
		c.view.RenderReservations(SortReservations(c.repo.List()))
	}
}

func (c *ReservationController) changed(ctx context.Context) {
	c.Render()
	notify(ctx, c.onChange)
}

// SortReservations は予約を日時の昇順に並べ替えた新しいスライスを返します
func SortReservations(reservations []model.Reservation) []model.Reservation {
	sorted := make([]model.Reservation, len(reservations))
	copy(sorted, reservations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime.Before(sorted[j].DateTime)
	})
	return sorted
}
