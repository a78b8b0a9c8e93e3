// Package validation checks HTTP request bodies with struct tags.
//
// Besides the stock validator tags it registers:
//
//	money    a decimal string, positive, at most two fractional digits
//	percent  a decimal string in [0, 100] with at most two fractional digits
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"refnet/internal/money"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("money", validateMoney)
	_ = validate.RegisterValidation("percent", validatePercent)
}

// Errors maps a JSON field name to the rule it broke.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Struct validates s. The returned error is nil or an Errors.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "money":
		return "must be a positive amount with at most two decimals"
	case "percent":
		return "must be between 0 and 100 with at most two decimals"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := money.Parse(fl.Field().String())
	return err == nil && money.IsValidAmount(d)
}

func validatePercent(fl validator.FieldLevel) bool {
	d, err := money.Parse(fl.Field().String())
	return err == nil && money.IsValidPercent(d)
}
