package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义校验器
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("imo", validateIMO)
	}
}

// validateIMO IMO编号校验：7位数字，末位为加权校验位
func validateIMO(fl validator.FieldLevel) bool {
	imo := fl.Field().String()
	if len(imo) != 7 {
		return false
	}
	sum := 0
	for i := 0; i < 6; i++ {
		if imo[i] < '0' || imo[i] > '9' {
			return false
		}
		sum += int(imo[i]-'0') * (7 - i)
	}
	if imo[6] < '0' || imo[6] > '9' {
		return false
	}
	return sum%10 == int(imo[6]-'0')
}
