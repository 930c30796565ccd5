package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type CustomValidator struct {
	validator *validator.Validate
	now       func() time.Time
}

func NewValidator() *CustomValidator {
	return NewValidatorWithClock(time.Now)
}

// NewValidatorWithClock builds a validator whose date rules are evaluated
// against now instead of the wall clock.
func NewValidatorWithClock(now func() time.Time) *CustomValidator {
	cv := &CustomValidator{
		validator: validator.New(),
		now:       now,
	}

	// Report json field names so error maps line up with request bodies.
	cv.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	cv.validator.RegisterValidation("notpast", cv.notPast)
	cv.validator.RegisterValidation("hhmm", isClockTime)

	return cv
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// notPast accepts a YYYY-MM-DD date that is today or later in local time.
func (cv *CustomValidator) notPast(fl validator.FieldLevel) bool {
	date, err := time.ParseInLocation(dateLayout, fl.Field().String(), time.Local)
	if err != nil {
		return false
	}
	now := cv.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !date.Before(today)
}

func isClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(timeLayout, fl.Field().String())
	return err == nil
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "eqfield":
				errors[field] = field + " does not match " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "numeric":
				errors[field] = field + " must be a number"
			case "datetime":
				errors[field] = field + " must match the format " + e.Param()
			case "notpast":
				errors[field] = field + " cannot be in the past"
			case "hhmm":
				errors[field] = field + " must be a time in HH:MM format"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
