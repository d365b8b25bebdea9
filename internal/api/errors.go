package api

import (
	"errors"
	"net/http"

	"car-rental/internal/auth"
	"car-rental/internal/service"
	"car-rental/internal/uploads"
	"car-rental/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in the "code" field
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidDateRange    = "INVALID_DATE_RANGE"
	CodeCarNotFound         = "CAR_NOT_FOUND"
	CodeCarUnavailable      = "CAR_UNAVAILABLE"
	CodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeInvalidUpload       = "INVALID_UPLOAD"
	CodeUploadTooLarge      = "UPLOAD_TOO_LARGE"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// respondError maps a service error to a status and code. Anything not
// recognised is an infrastructure failure: the detail is logged and the
// client gets a generic message.
func respondError(c *gin.Context, err error) {
	var validationErrs service.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		abort(c, http.StatusBadRequest, CodeValidationFailed, "validation failed", gin.H{"fields": validationErrs})
	case errors.Is(err, service.ErrInvalidDateRange):
		abort(c, http.StatusBadRequest, CodeInvalidDateRange, service.ErrInvalidDateRange.Error(), nil)
	case errors.Is(err, service.ErrCarNotFound):
		abort(c, http.StatusNotFound, CodeCarNotFound, service.ErrCarNotFound.Error(), nil)
	case errors.Is(err, service.ErrCarUnavailable):
		abort(c, http.StatusConflict, CodeCarUnavailable, service.ErrCarUnavailable.Error(), nil)
	case errors.Is(err, service.ErrPaymentNotCompleted):
		abort(c, http.StatusPaymentRequired, CodePaymentNotCompleted, service.ErrPaymentNotCompleted.Error(), nil)
	case errors.Is(err, service.ErrBookingNotFound):
		abort(c, http.StatusNotFound, CodeBookingNotFound, service.ErrBookingNotFound.Error(), nil)
	case errors.Is(err, uploads.ErrTooLarge):
		abort(c, http.StatusRequestEntityTooLarge, CodeUploadTooLarge, err.Error(), nil)
	case errors.Is(err, uploads.ErrUnsupportedType), errors.Is(err, uploads.ErrEmpty):
		abort(c, http.StatusBadRequest, CodeInvalidUpload, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, CodeInvalidCredentials, auth.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, auth.ErrUnauthorized):
		abort(c, http.StatusUnauthorized, CodeUnauthorized, auth.ErrUnauthorized.Error(), nil)
	case errors.Is(err, auth.ErrForbidden):
		abort(c, http.StatusForbidden, CodeForbidden, auth.ErrForbidden.Error(), nil)
	default:
		util.LoggerFromContext(c.Request.Context()).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		abort(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}

func badRequestBody(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, CodeValidationFailed, "invalid request body", gin.H{"body": err.Error()})
}

func abort(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Error: message, Details: details})
}
