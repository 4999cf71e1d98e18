package model

import "github.com/shopspring/decimal"

func init() {
	// 保存済みドキュメントと同じく金額は数値として出力する
	decimal.MarshalJSONWithoutQuotes = true
}

// MenuCategory はメニューのカテゴリを表します
type MenuCategory string

const (
	MenuCategoryAppetizers MenuCategory = "appetizers"
	MenuCategoryMains      MenuCategory = "mains"
	MenuCategoryDesserts   MenuCategory = "desserts"
	MenuCategoryDrinks     MenuCategory = "drinks"
)

// MenuCategories はフォームで選択可能なカテゴリの一覧です
var MenuCategories = []MenuCategory{
	MenuCategoryAppetizers,
	MenuCategoryMains,
	MenuCategoryDesserts,
	MenuCategoryDrinks,
}

// MenuItem はメニュー項目のドメインモデルです
type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    MenuCategory    `json:"category"`
	Description string          `json:"description"`
	Available   bool            `json:"available"`
}

func (m MenuItem) EntityID() int64 { return m.ID }

func (m MenuItem) WithID(id int64) MenuItem {
	m.ID = id
	return m
}

// Clone はコピーを返します
func (m MenuItem) Clone() MenuItem { return m }

// NewMenuItem はフォーム入力から提供可能なメニュー項目を作成します
func NewMenuItem(name string, price decimal.Decimal, category MenuCategory, description string) MenuItem {
	return MenuItem{
		Name:        name,
		Price:       price,
		Category:    category,
		Description: description,
		Available:   true,
	}
}
