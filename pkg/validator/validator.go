package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustom installs the domain validation rules on gin's binding
// validator. Safe to call once at startup.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("dateonly", validDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("timeofday", validTimeOfDay); err != nil {
		return err
	}
	if err := v.RegisterValidation("weekday", validWeekday); err != nil {
		return err
	}
	return nil
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validTimeOfDay(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

func validWeekday(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}
