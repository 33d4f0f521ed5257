package apperror

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// AmountPattern is the wire format of a leave amount: a non-negative decimal
// with at most two fractional digits.
var AmountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// MaxAmount is the largest value the numeric(10,2) amount columns hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

// ParseAmount returns the decimal value of v when it has the wire format and
// fits the amount columns.
func ParseAmount(v string) (decimal.Decimal, bool) {
	if !AmountPattern.MatchString(v) {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(v)
	if err != nil || amount.GreaterThan(MaxAmount) {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the json tag name func and the custom tags on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("leave_amount", func(fl validator.FieldLevel) bool {
		_, ok := ParseAmount(fl.Field().String())
		return ok
	})
}
