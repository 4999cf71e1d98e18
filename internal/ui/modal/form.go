package modal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
)

// Kind は入力欄の種類です
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindInteger
	KindDateTime
	KindSelect
)

// Field はフォームの入力欄です
// Rules には validator のタグを指定し、種類に応じて変換した値に対して評価されます
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    string
	Options  []string
	Default  string
	// Check はルールの後に評価される独自の検証です。エラーメッセージを返します
	Check func(value string) string

	value   string
	message string
}

// Invalid はエラー表示中かどうかを返します
func (f *Field) Invalid() bool { return f.message != "" }

// Message はエラーメッセージを返します
func (f *Field) Message() string { return f.message }

// Value は現在の入力値を返します
func (f *Field) Value() string { return f.value }

func (f *Field) validate() bool {
	f.message = validateField(f, f.value)
	return f.message == ""
}

// Form はモーダル内のフォームです
type Form struct {
	fields  []*Field
	byName  map[string]*Field
	focused string
}

// NewForm は入力欄の定義からフォームを作成します
func NewForm(fields ...Field) *Form {
	form := &Form{byName: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		field := f
		field.value = field.Default
		form.fields = append(form.fields, &field)
		form.byName[field.Name] = &field
	}
	return form
}

// Field は名前で入力欄を返します
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.byName[name]
	return field, ok
}

// Fields は定義順の入力欄を返します
func (f *Form) Fields() []*Field { return f.fields }

// Input は入力値を更新して、その欄を検証します
func (f *Form) Input(name, value string) error {
	field, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	field.value = value
	field.validate()
	return nil
}

// Blur はフォーカスが外れたときにその欄を検証します
func (f *Form) Blur(name string) error {
	field, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if f.focused == name {
		f.focused = ""
	}
	field.validate()
	return nil
}

// Fill は検証せずに値を設定します (編集時の初期値など)
func (f *Form) Fill(values map[string]string) {
	for name, v := range values {
		if field, ok := f.byName[name]; ok {
			field.value = v
		}
	}
}

// Reset は入力値を初期値に戻し、エラー表示を消します
func (f *Form) Reset() {
	for _, field := range f.fields {
		field.value = field.Default
		field.message = ""
	}
}

// Validate はすべての欄を検証し、すべて有効なら true を返します
// 無効な欄はまとめてエラー表示になります
func (f *Form) Validate() bool {
	valid := true
	for _, field := range f.fields {
		if !field.validate() {
			valid = false
		}
	}
	return valid
}

// Errors はエラー表示中の欄とメッセージを返します
func (f *Form) Errors() map[string]string {
	errs := make(map[string]string)
	for _, field := range f.fields {
		if field.message != "" {
			errs[field.Name] = field.message
		}
	}
	return errs
}

// Focused はフォーカス中の欄の名前を返します
func (f *Form) Focused() string { return f.focused }

func (f *Form) focusFirst() {
	f.focused = ""
	if len(f.fields) > 0 {
		f.focused = f.fields[0].Name
	}
}

// Value は入力値を返します
func (f *Form) Value(name string) string {
	if field, ok := f.byName[name]; ok {
		return field.value
	}
	return ""
}

// Text は前後の空白を除いた入力値を返します
func (f *Form) Text(name string) string {
	return strings.TrimSpace(f.Value(name))
}

// Decimal は入力値を数値として返します
func (f *Form) Decimal(name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(f.Value(name)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %s is not a number: %w", name, err)
	}
	return d, nil
}

// Int は入力値を整数として返します
func (f *Form) Int(name string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(f.Value(name)))
	if err != nil {
		return 0, fmt.Errorf("field %s is not an integer: %w", name, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("field %s is not an integer: %s", name, d)
	}
	return int(d.IntPart()), nil
}

// Time は入力値を loc の日時として返します
func (f *Form) Time(name string, loc *time.Location) (time.Time, error) {
	t, err := model.ParseReservationDateTime(f.Value(name), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s is not a datetime: %w", name, err)
	}
	return t, nil
}
