package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pharmaduty-go/internal/domain/phone"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phone.Validate(fl.Field().String()) == nil
	})
	mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate checks a request struct against its validate tags and returns field-keyed messages
// named after the json fields. Nested slice elements are keyed like "items.0.duty_date".
func Validate(req interface{}) validation.Errors {
	errs := validation.Errors{}
	err := validate.Struct(req)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("body", err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		field := fieldKey(fe.Namespace())
		errs.Add(field, message(fe, field))
	}
	return errs
}

// fieldKey drops the struct name and turns "items[0].duty_date" into "items.0.duty_date".
func fieldKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	replacer := strings.NewReplacer("[", ".", "]", "")
	return replacer.Replace(namespace)
}

func message(fe validator.FieldError, field string) string {
	label := strings.ReplaceAll(field[strings.LastIndex(field, ".")+1:], "_", " ")
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s", label, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("The %s is out of range", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid", label)
	case "eqfield":
		return fmt.Sprintf("The %s does not match", label)
	case "phone":
		return fmt.Sprintf("The %s format is invalid", label)
	case "hhmm":
		return fmt.Sprintf("The %s must be a time in HH:MM format", label)
	case "isodate":
		return fmt.Sprintf("The %s must be a date in YYYY-MM-DD format", label)
	case "latitude", "longitude":
		return fmt.Sprintf("The %s is not a valid coordinate", label)
	default:
		return fmt.Sprintf("The %s is invalid", label)
	}
}
