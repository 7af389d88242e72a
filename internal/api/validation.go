package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators adds the taskcode rule to gin's validator and makes
// errors report JSON field names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("taskcode", validateTaskCode)
	})
}

func validateTaskCode(fl validator.FieldLevel) bool {
	return domain.ValidateTaskCode(fl.Field().String()) == nil
}
