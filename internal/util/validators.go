package util

import (
	"github.com/go-playground/validator/v10"
)

// ValidateCardLast4 卡号后四位：为空或恰好四位数字
func ValidateCardLast4(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidatePayoutMethod 提现方式只能是 BANK、MOBILE 或 CARD
func ValidatePayoutMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BANK", "MOBILE", "CARD":
		return true
	}
	return false
}

// RegisterValidators 注册自定义校验规则
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("card_last4", ValidateCardLast4)
	v.RegisterValidation("payout_method", ValidatePayoutMethod)
}
