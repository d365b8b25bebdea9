package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"car-rental/internal/pricing"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// RequestValidator checks inbound request shapes before they reach the store
type RequestValidator struct {
	validate *validator.Validate
	region   string
}

// NewRequestValidator creates a validator. region is the default phone region
// used for numbers given without a country code.
func NewRequestValidator(region string) *RequestValidator {
	if region == "" {
		region = "US"
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rv := &RequestValidator{validate: v, region: region}

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rv.NormalizePhone(fl.Field().String()) != ""
	})

	return rv
}

// NormalizePhone returns the number in E.164 form, or "" if it is not valid
func (rv *RequestValidator) NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, rv.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// Struct validates a tagged struct and translates the errors
func (rv *RequestValidator) Struct(s any) error {
	if err := rv.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateBooking checks the request and parses its dates
func (rv *RequestValidator) ValidateBooking(req *CreateBookingRequest) (time.Time, time.Time, error) {
	if err := rv.Struct(req); err != nil {
		return time.Time{}, time.Time{}, err
	}

	pickup, err := pricing.ParseDate(req.PickupDate)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField("pickupDate", err.Error())
	}
	ret, err := pricing.ParseDate(req.ReturnDate)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField("returnDate", err.Error())
	}
	if !ret.After(pickup) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}

	return pickup, ret, nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "phone":
			message = fmt.Sprintf("%s must be a valid phone number", err.Field())
		case "min", "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max", "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// normalizeText trims and collapses runs of whitespace
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}
