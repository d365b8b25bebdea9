package service

import (
	"errors"
	"fmt"
	"strings"

	"car-rental/internal/pricing"
	"car-rental/internal/store"
)

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrCarNotFound         = errors.New("car not found")
	ErrCarUnavailable      = errors.New("car is not available for booking")
	ErrInvalidDateRange    = pricing.ErrInvalidDateRange
	ErrPaymentNotCompleted = errors.New("payment has not been completed")
	ErrBookingNotFound     = errors.New("booking not found")
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors matches ErrValidationFailed under errors.Is
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidationFailed.Error()
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalidField(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// failureReason labels an error for the bookings_failed_total metric
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrCarNotFound):
		return "car_not_found"
	case errors.Is(err, ErrCarUnavailable):
		return "car_unavailable"
	case errors.Is(err, ErrPaymentNotCompleted):
		return "payment_not_completed"
	case errors.Is(err, store.ErrStoreCorrupt):
		return "store_corrupt"
	case errors.Is(err, store.ErrStorePersistFailed):
		return "store_persist_failed"
	default:
		return "internal"
	}
}
