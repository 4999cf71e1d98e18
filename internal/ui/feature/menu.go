package feature

import (
	"context"
	"strings"

	"github.com/uma-arai/sbcntr-restaurant/internal/model"
	"github.com/uma-arai/sbcntr-restaurant/internal/repository"
	"github.com/uma-arai/sbcntr-restaurant/internal/ui/modal"
)

// MenuModalID はメニュー項目フォームのモーダルIDです
const MenuModalID = "menu-item-modal"

// メニューのアクション名
const (
	ActionToggle = "toggle"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// MenuGroup はカテゴリごとのメニュー項目です
type MenuGroup struct {
	Category model.MenuCategory
	Title    string
	Items    []model.MenuItem
}

// MenuView はメニュー一覧を表示します
type MenuView interface {
	RenderMenu(groups []MenuGroup)
}

// MenuController はメニュー画面の操作を扱います
type MenuController struct {
	repo     *repository.MenuRepository
	modals   *modal.Controller
	view     MenuView
	confirm  modal.ConfirmFunc
	onChange ChangeHook
	mode     Mode
}

// NewMenuController はメニュー項目フォームを登録して MenuController を作成します
func NewMenuController(repo *repository.MenuRepository, modals *modal.Controller, view MenuView, confirm modal.ConfirmFunc, onChange ChangeHook) *MenuController {
	categories := make([]string, len(model.MenuCategories))
	for i, c := range model.MenuCategories {
		categories[i] = string(c)
	}

	modals.Register(MenuModalID, modal.NewForm(
		modal.Field{Name: "name", Kind: modal.KindText, Required: true},
		modal.Field{Name: "price", Kind: modal.KindNumber, Required: true, Rules: "gte=0"},
		modal.Field{Name: "category", Kind: modal.KindSelect, Required: true, Options: categories},
		modal.Field{Name: "description", Kind: modal.KindText},
	))

	if confirm == nil {
		confirm = modal.AlwaysConfirm
	}
	c := &MenuController{
		repo:     repo,
		modals:   modals,
		view:     view,
		confirm:  confirm,
		onChange: onChange,
	}
	// 閉じたら編集モードを解除する
	modals.OnClose(MenuModalID, func() { c.mode = CreateMode() })
	return c
}

// Mode は現在のフォームのモードを返します
func (c *MenuController) Mode() Mode { return c.mode }

// Form はメニュー項目フォームを返します
func (c *MenuController) Form() *modal.Form { return c.modals.Form(MenuModalID) }

// OpenCreate は新規作成用にフォームを開きます
func (c *MenuController) OpenCreate() error {
	if err := c.modals.Open(MenuModalID); err != nil {
		return err
	}
	c.mode = CreateMode()
	return nil
}

// Edit は既存のメニュー項目でフォームを埋めて開きます。IDが存在しない場合は何もしません
func (c *MenuController) Edit(id int64) error {
	item, ok := c.repo.Get(id)
	if !ok {
		return nil
	}
	if err := c.modals.Open(MenuModalID); err != nil {
		return err
	}
	c.mode = EditMode(id)
	c.Form().Fill(map[string]string{
		"name":        item.Name,
		"price":       item.Price.String(),
		"category":    string(item.Category),
		"description": item.Description,
	})
	return nil
}

// Submit はフォームの内容で作成または更新します
func (c *MenuController) Submit(ctx context.Context) error {
	err := c.modals.Submit(MenuModalID, func(form *modal.Form) error {
		price, err := form.Decimal("price")
		if err != nil {
			return err
		}
		name := form.Text("name")
		category := model.MenuCategory(form.Value("category"))
		description := form.Text("description")

		if id, editing := c.mode.Editing(); editing {
			c.repo.Update(ctx, id, func(item *model.MenuItem) {
				item.Name = name
				item.Price = price
				item.Category = category
				item.Description = description
			})
			return nil
		}

		c.repo.Create(ctx, model.NewMenuItem(name, price, category, description))
		return nil
	})
	if err != nil {
		return err
	}

	c.changed(ctx)
	return nil
}

// Handle は一覧上のアクションを実行します。IDが存在しない場合は何もしません
func (c *MenuController) Handle(ctx context.Context, action string, id int64) error {
	switch action {
	case ActionToggle:
		if repository.ToggleAvailability(ctx, c.repo, id) {
			c.changed(ctx)
		}
	case ActionEdit:
		return c.Edit(id)
	case ActionDelete:
		if _, ok := c.repo.Get(id); !ok {
			return nil
		}
		if !c.confirm("Are you sure you want to delete this menu item?") {
			return nil
		}
		if c.repo.Delete(ctx, id) {
			c.changed(ctx)
		}
	default:
		return unknownAction(action)
	}
	return nil
}

// Render はメニュー一覧を表示します
func (c *MenuController) Render() {
	if c.view != nil {
		c.view.RenderMenu(GroupMenu(c.repo.List()))
	}
}

func (c *MenuController) changed(ctx context.Context) {
	c.Render()
	notify(ctx, c.onChange)
}

// GroupMenu はメニュー項目をカテゴリの出現順にまとめます
func GroupMenu(items []model.MenuItem) []MenuGroup {
	index := make(map[model.MenuCategory]int)
	groups := []MenuGroup{}
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, MenuGroup{
				Category: item.Category,
				Title:    Capitalize(string(item.Category)),
			})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Capitalize は先頭の1文字を大文字にします
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AvailabilityLabel は提供可否切り替えボタンの表示名を返します
func AvailabilityLabel(item model.MenuItem) string {
	if item.Available {
		return "Mark Unavailable"
	}
	return "Mark Available"
}

