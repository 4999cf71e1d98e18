package modal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-restaurant/internal/model"
)

// 入力欄のエラーメッセージ (ブラウザの標準メッセージに合わせています)
const (
	msgRequired       = "Please fill out this field."
	msgSelectRequired = "Please select an item in the list."
	msgNumber         = "Please enter a number."
	msgInvalid        = "Please enter a valid value."
	msgDateTime       = "Please enter a valid date and time."
	msgPattern        = "Please match the requested format."
	msgRangeUnder     = "Value must be greater than or equal to %s."
	msgRangeOver      = "Value must be less than or equal to %s."
	msgStep           = "Please enter a valid value. The two nearest valid values are %s and %s."
	msgTooShort       = "Please lengthen this text to %s characters or more."
	msgTooLong        = "Please shorten this text to %s characters or less."
)

// phonePattern は電話番号として受け付ける書式です
var phonePattern = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register phone validation: %v", err))
	}
	return v
}

// validateField は入力値を検証し、エラーがあればメッセージを返します
func validateField(f *Field, raw string) string {
	if raw == "" {
		if !f.Required {
			return ""
		}
		if f.Kind == KindSelect {
			return msgSelectRequired
		}
		return msgRequired
	}

	var msg string
	switch f.Kind {
	case KindNumber:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return msgNumber
		}
		msg = runRules(d.InexactFloat64(), f.Rules, true)
	case KindInteger:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return msgNumber
		}
		if !d.IsInteger() {
			return fmt.Sprintf(msgStep, d.Floor().String(), d.Ceil().String())
		}
		msg = runRules(d.IntPart(), f.Rules, true)
	case KindDateTime:
		msg = runRules(raw, joinRules("datetime="+model.DateTimeLocalLayout, f.Rules), false)
	case KindSelect:
		msg = runRules(raw, joinRules("oneof="+strings.Join(f.Options, " "), f.Rules), false)
	default:
		msg = runRules(raw, f.Rules, false)
	}
	if msg != "" {
		return msg
	}

	if f.Check != nil {
		return f.Check(raw)
	}
	return ""
}

func joinRules(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + "," + extra
}

// runRules は validator のタグで値を検証し、最初に失敗したルールのメッセージを返します
func runRules(value any, rules string, numeric bool) string {
	if rules == "" {
		return ""
	}

	err := validate.Var(value, rules)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalid
	}
	return messageFor(verrs[0], numeric)
}

func messageFor(fe validator.FieldError, numeric bool) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "gte", "min", "gt":
		if numeric {
			return fmt.Sprintf(msgRangeUnder, fe.Param())
		}
		return fmt.Sprintf(msgTooShort, fe.Param())
	case "lte", "max", "lt":
		if numeric {
			return fmt.Sprintf(msgRangeOver, fe.Param())
		}
		return fmt.Sprintf(msgTooLong, fe.Param())
	case "oneof":
		return msgSelectRequired
	case "datetime":
		return msgDateTime
	case "phone", "e164", "numeric":
		return msgPattern
	default:
		return msgInvalid
	}
}
