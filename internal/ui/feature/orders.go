package feature

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/modal"
)

// OrderModalID は注文フォームのモーダルIDです
const OrderModalID = "order-modal"

// 注文のアクション名
const (
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

// orderLinePattern は "名前 x 数量" 形式の明細です (数量は省略可)
var orderLinePattern = regexp.MustCompile(`^(.+?)\s+[xX×]\s*(\d+)$`)

// OrderView は注文一覧を表示します
type OrderView interface {
	RenderOrders(active, completed []model.Order)
}

// OrderController は注文画面の操作を扱います
type OrderController struct {
	orders   *repository.OrderRepository
	menu     *repository.MenuRepository
	modals   *modal.Controller
	view     OrderView
	onChange ChangeHook
	now      func() time.Time
}

// NewOrderController は注文フォームを登録して OrderController を作成します
func NewOrderController(orders *repository.OrderRepository, menu *repository.MenuRepository, modals *modal.Controller, view OrderView, onChange ChangeHook) *OrderController {
	c := &OrderController{
		orders:   orders,
		menu:     menu,
		modals:   modals,
		view:     view,
		onChange: onChange,
		now:      time.Now,
	}

	modals.Register(OrderModalID, modal.NewForm(
		modal.Field{Name: "table", Kind: modal.KindInteger, Required: true, Rules: "min=1"},
		modal.Field{Name: "items", Kind: modal.KindText, Required: true, Check: func(value string) string {
			if _, err := ParseOrderItems(value, c.menu); err != nil {
				return err.Error()
			}
			return ""
		}},
	))
	return c
}

// Form は注文フォームを返します
func (c *OrderController) Form() *modal.Form { return c.modals.Form(OrderModalID) }

// OpenCreate は注文フォームを開きます
func (c *OrderController) OpenCreate() error {
	return c.modals.Open(OrderModalID)
}

// Submit はフォームの内容で注文を作成します
func (c *OrderController) Submit(ctx context.Context) error {
	return c.modals.Submit(OrderModalID, func(form *modal.Form) error {
		table, err := form.Int("table")
		if err != nil {
			return err
		}
		items, err := ParseOrderItems(form.Value("items"), c.menu)
		if err != nil {
			return err
		}
		c.Create(ctx, items, table)
		return nil
	})
}

// Create は明細とテーブル番号から注文を作成します
func (c *OrderController) Create(ctx context.Context, items []model.OrderItem, table int) model.Order {
	created := c.orders.Create(ctx, model.NewOrder(items, table, c.now()))
	c.changed(ctx)
	return created
}

// Handle は一覧上のアクションを実行します。IDが存在しない場合は何もしません
func (c *OrderController) Handle(ctx context.Context, action string, id int64) error {
	switch action {
	case ActionComplete:
		if repository.CompleteOrder(ctx, c.orders, id, c.now()) {
			c.changed(ctx)
		}
	case ActionCancel:
		if repository.CancelOrder(ctx, c.orders, id) {
			c.changed(ctx)
		}
	default:
		return unknownAction(action)
	}
	return nil
}

// Render は注文を未処理と完了に分けて表示します
func (c *OrderController) Render() {
	if c.view == nil {
		return
	}
	active, completed := SplitOrders(c.orders.List())
	c.view.RenderOrders(active, completed)
}

func (c *OrderController) changed(ctx context.Context) {
	c.Render()
	notify(ctx, c.onChange)
}

// SplitOrders は注文を未処理と完了に分けます (順序は保持します)
func SplitOrders(orders []model.Order) (active, completed []model.Order) {
	active, completed = []model.Order{}, []model.Order{}
	for _, order := range orders {
		if order.Status == model.OrderStatusCompleted {
			completed = append(completed, order)
		} else {
			active = append(active, order)
		}
	}
	return active, completed
}

// ParseOrderItems は "Margherita x 2, Cola x 1" 形式の入力を明細に変換します
// 単価は提供可能なメニュー項目から引き、同じ名前の行は数量をまとめません
func ParseOrderItems(value string, menu *repository.MenuRepository) ([]model.OrderItem, error) {
	var items []model.OrderItem
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, qty := part, 1
		if m := orderLinePattern.FindStringSubmatch(part); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("invalid quantity in %q", part)
			}
			name, qty = strings.TrimSpace(m[1]), n
		}
		if qty < 1 {
			return nil, fmt.Errorf("quantity must be at least 1 for %s", name)
		}

		item, ok := repository.FindAvailableByName(menu, name)
		if !ok {
			return nil, fmt.Errorf("%s is not an available menu item", name)
		}
		items = append(items, model.OrderItem{Name: item.Name, Price: item.Price, Quantity: qty})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	return items, nil
}
