package models

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands product categories and
// decimal amounts.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(ProductFields)
		if !f.Price.Equal(f.Price.Truncate(PriceScale)) {
			sl.ReportError(f.Price, "Price", "Price", "scale", strconv.Itoa(PriceScale))
		}
	}, ProductFields{})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := ParseCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("bytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := ParseRole(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate runs v over s and converts failures into a *ValidationError.
func Validate(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "lt":
		return "must be less than " + fe.Param()
	case "scale":
		return "must have at most " + fe.Param() + " decimal places"
	case "bytes":
		return "must be at most " + fe.Param() + " bytes"
	case "email":
		return "must be a valid email address"
	case "category":
		return "is not a known category"
	case "role":
		return "must be weaver or buyer"
	default:
		return "is invalid"
	}
}
