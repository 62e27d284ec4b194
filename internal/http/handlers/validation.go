package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"tiketbus/internal/domain"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the seatno, hhmm and ymd tags to gin's validator
// and reports JSON field names in errors.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("seatno", func(fl validator.FieldLevel) bool {
			_, ok := domain.SeatIndex(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
			return ok
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return utils.IsClock(fl.Field().String())
		})
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			return utils.IsDate(fl.Field().String())
		})
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "seatno":
		return fmt.Sprintf("nomor kursi %v tidak valid", fe.Value())
	case "hhmm":
		return "jam wajib format HH:MM"
	case "ymd":
		return "tanggal wajib format YYYY-MM-DD"
	case "min", "gte":
		return "minimal " + fe.Param()
	case "max", "lte":
		return "maksimal " + fe.Param()
	case "oneof":
		return "harus salah satu dari " + fe.Param()
	}
	return "tidak valid (" + fe.Tag() + ")"
}
